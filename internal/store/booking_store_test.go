package store

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavholm/kavholm-golang/internal/models"
)

var bookingTestColumns = []string{
	"id", "user_id", "listing_id", "username", "host_username",
	"payment_method", "start_date", "end_date", "guests", "total_cost", "created_at",
}

func newBookingStoreMock(t *testing.T) (*BookingStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingStore(db), mock
}

func TestCreateBookingAppliesDefaults(t *testing.T) {
	s, mock := newBookingStoreMock(t)

	listing := models.Listing{ID: 42, UserID: 7, Price: 100.0}
	start := date(2021, 3, 5)
	end := date(2021, 3, 7)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryUserIDByUsername)).
		WithArgs("jlo").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	// Defaults: payment method "card", 1 guest. Cost is 3 nights at 100 + 10%.
	mock.ExpectExec(regexp.QuoteMeta(queryInsertBooking)).
		WithArgs(int64(3), int64(42), "card", start, end, 1, 330.0).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(regexp.QuoteMeta(queryBookingByID)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(bookingTestColumns).
			AddRow(11, 3, 42, "jlo", "lebron", "card", start, end, 1, 330.0, now))
	mock.ExpectCommit()

	booking, err := s.CreateBooking(context.Background(), models.NewBooking{
		StartDate: "2021-03-05",
		EndDate:   "2021-03-07",
	}, listing, "jlo")
	require.NoError(t, err)

	assert.Equal(t, int64(11), booking.ID)
	assert.Equal(t, "jlo", booking.Username)
	assert.Equal(t, "lebron", booking.HostUsername)
	assert.Equal(t, "card", booking.PaymentMethod)
	assert.Equal(t, 1, booking.Guests)
	assert.Equal(t, 330.0, booking.TotalCost)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingKeepsExplicitValues(t *testing.T) {
	s, mock := newBookingStoreMock(t)

	listing := models.Listing{ID: 9, Price: 120.50}
	start := date(2021, 6, 28)
	end := date(2021, 6, 30)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryUserIDByUsername)).
		WithArgs("serena").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta(queryInsertBooking)).
		WithArgs(int64(5), int64(9), "paypal", start, end, 5, TotalCost(120.50, start, end)).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery(regexp.QuoteMeta(queryBookingByID)).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows(bookingTestColumns).
			AddRow(12, 5, 9, "serena", "jlo", "paypal", start, end, 5, 398.0, now))
	mock.ExpectCommit()

	// US-style dates are accepted too.
	booking, err := s.CreateBooking(context.Background(), models.NewBooking{
		StartDate:     "06-28-2021",
		EndDate:       "06-30-2021",
		PaymentMethod: "paypal",
		Guests:        5,
	}, listing, "serena")
	require.NoError(t, err)

	assert.Equal(t, "paypal", booking.PaymentMethod)
	assert.Equal(t, 5, booking.Guests)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingMissingDates(t *testing.T) {
	s, mock := newBookingStoreMock(t)

	cases := []models.NewBooking{
		{EndDate: "06-30-2021"},
		{StartDate: "06-28-2021"},
		{},
	}

	for _, input := range cases {
		_, err := s.CreateBooking(context.Background(), input, models.Listing{ID: 1, Price: 50}, "jlo")
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	// No expectations were registered, so this proves nothing hit the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnparseableDate(t *testing.T) {
	s, mock := newBookingStoreMock(t)

	_, err := s.CreateBooking(context.Background(), models.NewBooking{
		StartDate: "garbage",
		EndDate:   "2021-03-07",
	}, models.Listing{ID: 1, Price: 50}, "jlo")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnknownUser(t *testing.T) {
	s, mock := newBookingStoreMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryUserIDByUsername)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := s.CreateBooking(context.Background(), models.NewBooking{
		StartDate: "2021-03-05",
		EndDate:   "2021-03-07",
	}, models.Listing{ID: 1, Price: 50}, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingByID(t *testing.T) {
	s, mock := newBookingStoreMock(t)

	start := date(2021, 3, 5)
	end := date(2021, 3, 7)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(queryBookingByID)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(bookingTestColumns).
			AddRow(11, 3, 42, "jlo", "lebron", "card", start, end, 1, 330.0, now))

	booking, err := s.GetBookingByID(11)
	require.NoError(t, err)
	assert.Equal(t, int64(42), booking.ListingID)
	// hostUsername resolves through the listing's owner.
	assert.Equal(t, "lebron", booking.HostUsername)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingByIDNotFound(t *testing.T) {
	s, mock := newBookingStoreMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryBookingByID)).
		WithArgs(int64(999999)).
		WillReturnRows(sqlmock.NewRows(bookingTestColumns))

	_, err := s.GetBookingByID(999999)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookingsFromUser(t *testing.T) {
	s, mock := newBookingStoreMock(t)

	now := time.Now()
	earlier := now.Add(-24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(queryBookingsFromUser)).
		WithArgs("jlo").
		WillReturnRows(sqlmock.NewRows(bookingTestColumns).
			AddRow(12, 3, 9, "jlo", "serena", "card", date(2021, 6, 28), date(2021, 6, 30), 2, 598.0, now).
			AddRow(11, 3, 42, "jlo", "lebron", "card", date(2021, 3, 5), date(2021, 3, 7), 1, 330.0, earlier))

	bookings, err := s.ListBookingsFromUser("jlo")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.True(t, bookings[0].CreatedAt.After(bookings[1].CreatedAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookingsFromUserEmpty(t *testing.T) {
	s, mock := newBookingStoreMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryBookingsFromUser)).
		WithArgs("lebron").
		WillReturnRows(sqlmock.NewRows(bookingTestColumns))

	bookings, err := s.ListBookingsFromUser("lebron")
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookingsForUserListingsEmpty(t *testing.T) {
	s, mock := newBookingStoreMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryBookingsForUserListings)).
		WithArgs("serena").
		WillReturnRows(sqlmock.NewRows(bookingTestColumns))

	bookings, err := s.ListBookingsForUserListings("serena")
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListQueriesOrderNewestFirst(t *testing.T) {
	// Ordering lives in the SQL, so pin it there.
	assert.True(t, strings.Contains(queryBookingsFromUser, "ORDER BY b.created_at DESC"))
	assert.True(t, strings.Contains(queryBookingsForUserListings, "ORDER BY b.created_at DESC"))
}
