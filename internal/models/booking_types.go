package models

import "time"

// Booking is the model for the 'bookings' table.
// Username and HostUsername are never stored on the row; every read resolves
// them from the users/listings tables so they always reflect the *current*
// usernames of the guest and the host.
type Booking struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"userId" db:"user_id"` // The guest
	ListingID     int64     `json:"listingId" db:"listing_id"`
	Username      string    `json:"username" db:"username"`
	HostUsername  string    `json:"hostUsername" db:"host_username"`
	PaymentMethod string    `json:"paymentMethod" db:"payment_method"`
	StartDate     time.Time `json:"startDate" db:"start_date"` // Inclusive
	EndDate       time.Time `json:"endDate" db:"end_date"`     // Inclusive
	Guests        int       `json:"guests" db:"guests"`
	TotalCost     float64   `json:"totalCost" db:"total_cost"` // Derived, never client-supplied
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// NewBooking holds the *input* for creating a booking.
// This is separate from 'Booking' because the total cost is always computed
// server-side and the ids come from the route and the session.
// Dates stay as raw strings here; presence and format are checked by the
// booking store, not by binding tags.
type NewBooking struct {
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	PaymentMethod string `json:"paymentMethod"`
	Guests        int    `json:"guests"`
}
