package handlers

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavholm/kavholm-golang/internal/store"
)

// newTestRouter wires a Handlers instance against sqlmock and fakes the auth
// middleware by injecting the acting user straight into the context.
func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &Handlers{
		DB:       db,
		Users:    store.NewUserStore(db),
		Listings: store.NewListingStore(db),
		Bookings: store.NewBookingStore(db),
	}

	router := gin.New()
	asUser := func(next gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("userID", int64(3))
			c.Set("username", "jlo")
			next(c)
		}
	}
	router.POST("/v1/listings/:id/bookings", asUser(h.CreateBooking))
	router.GET("/v1/bookings/:id", asUser(h.GetBooking))

	return router, mock
}

const listingSelectPattern = `SELECT id, user_id, title, slug, description, location, price, image_url, created_at, updated_at`

func listingRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "title", "slug", "description", "location", "price", "image_url", "created_at", "updated_at",
	}).AddRow(42, 7, "Seaside Cottage", "seaside-cottage", "A cottage by the sea", "Malibu", 100.0, nil, now, now)
}

func TestCreateBookingHandler(t *testing.T) {
	router, mock := newTestRouter(t)

	start := time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 3, 7, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(listingSelectPattern).WithArgs(int64(42)).WillReturnRows(listingRow())
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM users WHERE username = ?`)).
		WithArgs("jlo").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(int64(3), int64(42), "card", start, end, 1, 330.0).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`SELECT b\.id, b\.user_id, b\.listing_id`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "listing_id", "username", "host_username",
			"payment_method", "start_date", "end_date", "guests", "total_cost", "created_at",
		}).AddRow(11, 3, 42, "jlo", "lebron", "card", start, end, 1, 330.0, time.Now()))
	mock.ExpectCommit()

	body := `{"startDate":"2021-03-05","endDate":"2021-03-07"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/listings/42/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"hostUsername":"lebron"`)
	assert.Contains(t, w.Body.String(), `"totalCost":330`)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingHandlerMissingStartDate(t *testing.T) {
	router, mock := newTestRouter(t)

	// The listing exists; validation fails afterwards, before any write.
	mock.ExpectQuery(listingSelectPattern).WithArgs(int64(42)).WillReturnRows(listingRow())

	body := `{"endDate":"06-30-2021"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/listings/42/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingHandlerUnknownListing(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectQuery(listingSelectPattern).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "title", "slug", "description", "location", "price", "image_url", "created_at", "updated_at",
		}))

	body := `{"startDate":"2021-03-05","endDate":"2021-03-07"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/listings/404/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingHandlerForbidsThirdParties(t *testing.T) {
	router, mock := newTestRouter(t)

	start := time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 3, 7, 0, 0, 0, 0, time.UTC)

	// Booking between two other users; the acting user "jlo" is neither
	// guest nor host.
	mock.ExpectQuery(`SELECT b\.id, b\.user_id, b\.listing_id`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "listing_id", "username", "host_username",
			"payment_method", "start_date", "end_date", "guests", "total_cost", "created_at",
		}).AddRow(11, 5, 42, "serena", "lebron", "card", start, end, 1, 330.0, time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/11", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
