package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/kavholm/kavholm-golang/internal/models"
	"github.com/kavholm/kavholm-golang/internal/store"
)

// CreateListingInput defines the JSON input for creating a listing
type CreateListingInput struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Location    string  `json:"location" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	ImageURL    *string `json:"imageUrl"`
}

// CreateListing is the handler for POST /v1/listings
func (h *Handlers) CreateListing(c *gin.Context) {
	// 1. --- Get Host ID ---
	userID_raw, _ := c.Get("userID")
	hostID := userID_raw.(int64)

	// 2. --- Bind & Validate JSON ---
	var input CreateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 3. --- Create Listing Model ---
	listing := &models.Listing{
		UserID:      hostID,
		Title:       input.Title,
		Slug:        slug.Make(input.Title), // Generate slug from title
		Description: input.Description,
		Location:    input.Location,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
	}

	// 4. --- Save to Database ---
	if err := h.Listings.CreateListing(listing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}

	// 5. --- Send Success Response ---
	c.JSON(http.StatusCreated, gin.H{
		"message": "Listing created successfully",
		"listing": listing,
	})
}

// GetAllListings is the handler for GET /v1/listings
func (h *Handlers) GetAllListings(c *gin.Context) {
	listings, err := h.Listings.ListAllListings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
	})
}

// GetListing is the handler for GET /v1/listings/:id
func (h *Handlers) GetListing(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"listing": listing,
	})
}
