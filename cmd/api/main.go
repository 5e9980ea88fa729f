package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kavholm/kavholm-golang/internal/ai"
	"github.com/kavholm/kavholm-golang/internal/database"
	"github.com/kavholm/kavholm-golang/internal/handlers"
	"github.com/kavholm/kavholm-golang/internal/routes"
	"github.com/kavholm/kavholm-golang/internal/store"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Main Database Connection (Read/Write) ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to primary database: %v", err)
	}
	defer db.Close()

	// 2. --- AI Concierge (Optional) ---
	// The concierge needs a Gemini key and a read-only DB user. Without
	// either, the booking API still runs; only /v1/ai/chat is disabled.
	var aiService *ai.AIService
	geminiKey := os.Getenv("GEMINI_API_KEY")
	readOnlyDSN := os.Getenv("DB_DSN_READONLY")

	if geminiKey != "" && readOnlyDSN != "" {
		dbReadOnly, err := database.OpenDBWithDSN(readOnlyDSN)
		if err != nil {
			log.Fatalf("Failed to connect to AI read-only database: %v", err)
		}
		defer dbReadOnly.Close()

		aiService, err = ai.NewAIService(geminiKey, dbReadOnly)
		if err != nil {
			log.Fatalf("Failed to initialize AI Service: %v", err)
		}
	} else {
		log.Println("WARNING: GEMINI_API_KEY or DB_DSN_READONLY not set. AI concierge disabled.")
	}

	// 3. --- Application Setup ---
	// All dependencies (DB handle, stores, AI service) are injected here;
	// nothing below holds a global connection.
	app := &handlers.Handlers{
		DB:        db,
		Users:     store.NewUserStore(db),
		Listings:  store.NewListingStore(db),
		Bookings:  store.NewBookingStore(db),
		AIService: aiService,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting Kavholm API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
