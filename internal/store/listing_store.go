package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kavholm/kavholm-golang/internal/models"
)

// ListingStore issues all reads/writes for the 'listings' table.
type ListingStore struct {
	DB *sql.DB
}

func NewListingStore(db *sql.DB) *ListingStore {
	return &ListingStore{DB: db}
}

const (
	listingColumns = `
	SELECT id, user_id, title, slug, description, location, price, image_url, created_at, updated_at
	FROM listings`

	queryInsertListing = `
	INSERT INTO listings (user_id, title, slug, description, location, price, image_url, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryListingByID = listingColumns + `
	WHERE id = ?`

	queryAllListings = listingColumns + `
	ORDER BY created_at DESC`

	queryListingsForUser = listingColumns + `
	WHERE user_id = ?
	ORDER BY created_at DESC`
)

// CreateListing persists a new listing owned by the given host.
func (s *ListingStore) CreateListing(listing *models.Listing) error {
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = listing.CreatedAt

	result, err := s.DB.Exec(queryInsertListing,
		listing.UserID,
		listing.Title,
		listing.Slug,
		listing.Description,
		listing.Location,
		listing.Price,
		listing.ImageURL,
		listing.CreatedAt,
		listing.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	listing.ID = id
	return nil
}

// GetListingByID fetches a single listing.
func (s *ListingStore) GetListingByID(listingID int64) (*models.Listing, error) {
	listing, err := scanListing(s.DB.QueryRow(queryListingByID, listingID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: no listing with id %d", ErrNotFound, listingID)
		}
		return nil, err
	}
	return listing, nil
}

// ListAllListings returns every listing, newest first.
func (s *ListingStore) ListAllListings() ([]*models.Listing, error) {
	return s.listListings(queryAllListings)
}

// ListListingsForUser returns the listings a host owns, newest first.
func (s *ListingStore) ListListingsForUser(userID int64) ([]*models.Listing, error) {
	return s.listListings(queryListingsForUser, userID)
}

func (s *ListingStore) listListings(query string, args ...interface{}) ([]*models.Listing, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []*models.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return listings, nil
}

func scanListing(row rowScanner) (*models.Listing, error) {
	var l models.Listing
	var imageURL sql.NullString
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.Title,
		&l.Slug,
		&l.Description,
		&l.Location,
		&l.Price,
		&imageURL,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		l.ImageURL = &imageURL.String
	}
	return &l, nil
}
