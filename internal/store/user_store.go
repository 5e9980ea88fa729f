package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kavholm/kavholm-golang/internal/models"
)

// UserStore issues all reads/writes for the 'users' table.
type UserStore struct {
	DB *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{DB: db}
}

const (
	queryInsertUser = `
	INSERT INTO users (username, email, password_hash, first_name, last_name, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryUserByEmail = `
	SELECT id, username, email, password_hash, first_name, last_name, created_at, updated_at
	FROM users
	WHERE email = ?`

	queryUserByID = `
	SELECT id, username, email, password_hash, first_name, last_name, created_at, updated_at
	FROM users
	WHERE id = ?`
)

// CreateUser persists a new user. The caller is responsible for hashing the
// password first (models.Password).
func (s *UserStore) CreateUser(user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	result, err := s.DB.Exec(queryInsertUser,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// Most likely a UNIQUE violation on username or email.
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

// GetUserByEmail fetches a user for login.
func (s *UserStore) GetUserByEmail(email string) (*models.User, error) {
	return s.getUser(queryUserByEmail, email)
}

// GetUserByID fetches a user by primary key (used by the auth middleware to
// resolve the acting user's username from a token subject).
func (s *UserStore) GetUserByID(id int64) (*models.User, error) {
	return s.getUser(queryUserByID, id)
}

func (s *UserStore) getUser(query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := s.DB.QueryRow(query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}
