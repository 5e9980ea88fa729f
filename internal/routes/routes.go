package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kavholm/kavholm-golang/internal/handlers"
	"github.com/kavholm/kavholm-golang/internal/middleware"
)

// CORSMiddleware tells the browser it is safe for the local frontend to
// send data to us.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Strictly allow ONLY the local frontend
		c.Writer.Header().Set("Access-Control-Allow-Origin", "http://localhost:5173")

		// 2. Allow standard security credentials
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		// 3. Allow the headers we actually use (specifically "Authorization" for JWT tokens)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		// 4. Allow the HTTP methods we use in our API
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// 5. Handle the "Preflight" OPTIONS request
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	// CORS must be the very first thing the router uses
	router.Use(CORSMiddleware())

	// Serve uploaded listing photos
	router.Static("/uploads", "./uploads")

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// --- Public Listing Routes ---
		v1.GET("/listings", h.GetAllListings)
		v1.GET("/listings/:id", h.GetListing)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware(h.Users))
		{
			// Listings
			auth.POST("/listings", h.CreateListing)
			auth.POST("/upload", h.UploadFile)

			// Bookings
			auth.POST("/listings/:id/bookings", h.CreateBooking)
			auth.GET("/bookings", h.GetMyBookings)
			auth.GET("/bookings/listings", h.GetBookingsForMyListings)
			auth.GET("/bookings/:id", h.GetBooking)

			// AI Concierge
			auth.POST("/ai/chat", h.ChatAI)
		}
	}

	return router
}
