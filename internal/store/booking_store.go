package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kavholm/kavholm-golang/internal/models"
)

// BookingStore issues all reads/writes for the 'bookings' table.
// It holds an explicitly injected connection pool (no package globals),
// so tests can hand it a mock.
type BookingStore struct {
	DB *sql.DB
}

func NewBookingStore(db *sql.DB) *BookingStore {
	return &BookingStore{DB: db}
}

// bookingColumns is the enriched SELECT shape shared by every read.
// The guest username comes from a JOIN on users; the host username is
// resolved through the listing's owner with a nested subquery, so both
// always reflect the current usernames rather than a stored snapshot.
const bookingColumns = `
	SELECT b.id, b.user_id, b.listing_id,
	       u.username,
	       (
	           SELECT hosts.username
	           FROM users hosts
	           WHERE hosts.id = (
	               SELECT listings.user_id
	               FROM listings
	               WHERE listings.id = b.listing_id
	           )
	       ) AS host_username,
	       b.payment_method, b.start_date, b.end_date,
	       b.guests, b.total_cost, b.created_at
	FROM bookings b
	JOIN users u ON u.id = b.user_id`

const (
	queryBookingByID = bookingColumns + `
	WHERE b.id = ?`

	queryBookingsFromUser = bookingColumns + `
	WHERE b.user_id = (SELECT id FROM users WHERE username = ?)
	ORDER BY b.created_at DESC`

	queryBookingsForUserListings = bookingColumns + `
	JOIN listings host_listings ON host_listings.id = b.listing_id
	WHERE host_listings.user_id = (SELECT id FROM users WHERE username = ?)
	ORDER BY b.created_at DESC`

	queryInsertBooking = `
	INSERT INTO bookings (user_id, listing_id, payment_method, start_date, end_date, guests, total_cost)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryUserIDByUsername = `SELECT id FROM users WHERE username = ?`
)

// rowScanner is implemented by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.ListingID,
		&b.Username,
		&b.HostUsername,
		&b.PaymentMethod,
		&b.StartDate,
		&b.EndDate,
		&b.Guests,
		&b.TotalCost,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBooking validates the input, derives the total cost from the
// listing's nightly price and the stay length, and persists one new row
// scoped to the acting user and the given listing.
// It returns the newly created, fully enriched booking.
func (s *BookingStore) CreateBooking(ctx context.Context, newBooking models.NewBooking, listing models.Listing, username string) (*models.Booking, error) {
	// 1. --- Validate Dates ---
	// Both dates must be present. No other field-level validation happens here.
	if newBooking.StartDate == "" || newBooking.EndDate == "" {
		return nil, fmt.Errorf("%w: missing startDate or endDate", ErrInvalidInput)
	}

	startDate, err := ParseBookingDate(newBooking.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := ParseBookingDate(newBooking.EndDate)
	if err != nil {
		return nil, err
	}

	// 2. --- Apply Defaults & Compute Cost ---
	paymentMethod := newBooking.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "card"
	}
	guests := newBooking.Guests
	if guests == 0 {
		guests = 1
	}
	totalCost := TotalCost(listing.Price, startDate, endDate)

	// 3. --- Begin Transaction ---
	// Identity resolution and the insert run in one transaction so a
	// concurrent username change cannot slip in between the two steps.
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() // Safety net

	// 4. --- Resolve the Acting User ---
	var userID int64
	err = tx.QueryRow(queryUserIDByUsername, username).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: no user with username %q", ErrNotFound, username)
		}
		return nil, err
	}

	// 5. --- Insert the Booking ---
	// created_at is assigned by the column default.
	result, err := tx.Exec(queryInsertBooking,
		userID,
		listing.ID,
		paymentMethod,
		startDate,
		endDate,
		guests,
		totalCost,
	)
	if err != nil {
		return nil, err
	}
	bookingID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	// 6. --- Read Back the Enriched Row ---
	booking, err := scanBooking(tx.QueryRow(queryBookingByID, bookingID))
	if err != nil {
		return nil, err
	}

	// 7. --- Commit ---
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetBookingByID fetches a single enriched booking.
func (s *BookingStore) GetBookingByID(bookingID int64) (*models.Booking, error) {
	booking, err := scanBooking(s.DB.QueryRow(queryBookingByID, bookingID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: no booking with id %d", ErrNotFound, bookingID)
		}
		return nil, err
	}
	return booking, nil
}

// ListBookingsFromUser returns all bookings the user has made as a guest,
// most recent first. A user with no bookings gets an empty slice, not an error.
func (s *BookingStore) ListBookingsFromUser(username string) ([]*models.Booking, error) {
	return s.listBookings(queryBookingsFromUser, username)
}

// ListBookingsForUserListings returns all bookings made against listings the
// user hosts, most recent first. Empty slice when none exist.
func (s *BookingStore) ListBookingsForUserListings(username string) ([]*models.Booking, error) {
	return s.listBookings(queryBookingsForUserListings, username)
}

func (s *BookingStore) listBookings(query string, username string) ([]*models.Booking, error) {
	rows, err := s.DB.Query(query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []*models.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}
