package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kavholm/kavholm-golang/internal/models"
	"github.com/kavholm/kavholm-golang/internal/store"
)

//
// --- Booking Handlers ---
//

// CreateBooking is the handler for POST /v1/listings/:id/bookings
// The acting user becomes the guest; the listing comes from the route.
func (h *Handlers) CreateBooking(c *gin.Context) {
	// 1. --- Get the Acting User ---
	username_raw, _ := c.Get("username")
	username := username_raw.(string)

	// 2. --- Fetch the Target Listing ---
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	listing, err := h.Listings.GetListingByID(listingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listing"})
		return
	}

	// 3. --- Parse Input ---
	// Date presence/format checks happen in the booking store, so a missing
	// startDate fails there with ErrInvalidInput rather than at binding.
	var input models.NewBooking
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 4. --- Create the Booking ---
	booking, err := h.Bookings.CreateBooking(c.Request.Context(), input, *listing, username)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		}
		return
	}

	// 5. --- Send Success Response ---
	c.JSON(http.StatusCreated, gin.H{
		"booking": booking,
	})
}

// GetMyBookings is the handler for GET /v1/bookings
// Returns the bookings the acting user has made, newest first.
func (h *Handlers) GetMyBookings(c *gin.Context) {
	username_raw, _ := c.Get("username")
	username := username_raw.(string)

	bookings, err := h.Bookings.ListBookingsFromUser(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
	})
}

// GetBookingsForMyListings is the handler for GET /v1/bookings/listings
// Returns the bookings other users have made against the acting user's
// listings, newest first.
func (h *Handlers) GetBookingsForMyListings(c *gin.Context) {
	username_raw, _ := c.Get("username")
	username := username_raw.(string)

	bookings, err := h.Bookings.ListBookingsForUserListings(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
	})
}

// GetBooking is the handler for GET /v1/bookings/:id
// Only the guest who made the booking or the host it targets may read it.
func (h *Handlers) GetBooking(c *gin.Context) {
	username_raw, _ := c.Get("username")
	username := username_raw.(string)

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	booking, err := h.Bookings.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No booking found with that id"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking"})
		return
	}

	if booking.Username != username && booking.HostUsername != username {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a party to this booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking": booking,
	})
}
