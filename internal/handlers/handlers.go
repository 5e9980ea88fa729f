package handlers

import (
	"database/sql"

	"github.com/kavholm/kavholm-golang/internal/ai"
	"github.com/kavholm/kavholm-golang/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
// The stores own the SQL; handlers only translate HTTP.
type Handlers struct {
	DB        *sql.DB // Primary Read/Write connection (chat history writes)
	Users     *store.UserStore
	Listings  *store.ListingStore
	Bookings  *store.BookingStore
	AIService *ai.AIService
}
