package store

import (
	"fmt"
	"math"
	"time"
)

// serviceFeeRate is the fixed 10% marketplace surcharge applied on top of
// the nightly rate.
const serviceFeeRate = 0.10

// Accepted date layouts for booking input. The first is ISO, the second is
// the US-style format the frontend has historically sent.
var bookingDateLayouts = []string{"2006-01-02", "01-02-2006"}

// ParseBookingDate parses a raw date string and normalizes it to midnight UTC.
func ParseBookingDate(raw string) (time.Time, error) {
	for _, layout := range bookingDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", ErrInvalidInput, raw)
}

// NightCount returns the inclusive number of nights between two dates:
// two calendar days apart counts as three nights (both endpoints included).
// Dates are truncated to whole days first, so sub-day differences never
// leak into pricing.
func NightCount(start, end time.Time) int {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

// TotalCost computes the full price of a stay:
// ceil(nights * (nightly price + 10% service fee)).
func TotalCost(nightlyPrice float64, start, end time.Time) float64 {
	nights := NightCount(start, end)
	return math.Ceil(float64(nights) * (nightlyPrice + nightlyPrice*serviceFeeRate))
}
