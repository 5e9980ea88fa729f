package database

import (
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// OpenDB initializes and returns the primary Read/Write connection pool.
// The DSN is read from the environment (DB_DSN_PRIMARY).
func OpenDB() (*sql.DB, error) {
	dsn := os.Getenv("DB_DSN_PRIMARY")
	if dsn == "" {
		// FALLBACK: local development default. parseTime=true is required so
		// DATE/TIMESTAMP columns scan into time.Time.
		dsn = "root:root@tcp(127.0.0.1:3306)/kavholm?parseTime=true"
	}

	return OpenDBWithDSN(dsn)
}

// OpenDBWithDSN creates and configures a DB connection pool using any
// provided DSN string. Used for BOTH the primary pool and the read-only
// pool that backs the AI concierge.
func OpenDBWithDSN(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Ping the database to verify the connection.
	err = db.Ping()
	if err != nil {
		log.Printf("Error connecting to database with DSN: %v", err)
		return nil, err
	}

	log.Println("Database connection pool established successfully")
	return db, nil
}
