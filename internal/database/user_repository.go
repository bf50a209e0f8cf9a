package database

import (
	"database/sql"
	"fmt"

	"github.com/workscheduler/scheduling-backend/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser creates a new user with a pre-hashed password. The unique index
// on LOWER(user_email) enforces case-insensitive email uniqueness.
func (r *UserRepository) CreateUser(username, email, passwordHash string, displayName models.NullString) (*models.AppUser, error) {
	user := &models.AppUser{
		Username:     username,
		UserEmail:    email,
		UserPassword: passwordHash,
		IsVerified:   false,
		DisplayName:  displayName,
	}

	query := `
		INSERT INTO app_user (username, user_email, user_password, is_verified, display_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id
	`

	err := r.db.QueryRow(
		query,
		user.Username,
		user.UserEmail,
		user.UserPassword,
		user.IsVerified,
		user.DisplayName,
	).Scan(&user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetUserByEmail(email string) (*models.AppUser, error) {
	var user models.AppUser

	query := `
		SELECT user_id, username, user_email, user_password, is_verified, display_name
		FROM app_user
		WHERE LOWER(user_email) = LOWER($1)
	`

	err := r.db.Get(&user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id int64) (*models.AppUser, error) {
	var user models.AppUser

	query := `
		SELECT user_id, username, user_email, user_password, is_verified, display_name
		FROM app_user
		WHERE user_id = $1
	`

	err := r.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(id int64, passwordHash string) error {
	query := `
		UPDATE app_user
		SET user_password = $1
		WHERE user_id = $2
	`

	result, err := r.db.Exec(query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}
