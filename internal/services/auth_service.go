package services

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/workscheduler/scheduling-backend/internal/database"
	"github.com/workscheduler/scheduling-backend/internal/models"
)

// AuthService handles credential management: password hashing, user
// creation, and authentication. User creation is only called from controlled
// flows (registration wizard, onboarding acceptance); there is no public
// self-registration of bare users.
type AuthService struct {
	userRepository *database.UserRepository
	bcryptCost     int
}

// NewAuthService creates a new auth service
func NewAuthService(userRepository *database.UserRepository, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepository: userRepository,
		bcryptCost:     bcryptCost,
	}
}

// HashPassword returns the bcrypt hash of a password
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// RegisterUser creates a new user with a hashed password. The email is
// trimmed; case-insensitive uniqueness is enforced by the database index.
func (s *AuthService) RegisterUser(username, email, password string, displayName string) (*models.AppUser, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	var display models.NullString
	if displayName != "" {
		display.Valid = true
		display.String = displayName
	}

	user, err := s.userRepository.CreateUser(
		strings.TrimSpace(username),
		strings.TrimSpace(email),
		hash,
		display,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return user, nil
}

// Authenticate verifies credentials. It returns (nil, nil) for an unknown
// email and for a wrong password alike, so callers cannot tell which failed.
func (s *AuthService) Authenticate(email, password string) (*models.AppUser, error) {
	user, err := s.userRepository.GetUserByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(password)); err != nil {
		return nil, nil
	}

	return user, nil
}

// SetPassword replaces a user's password hash and persists it immediately
func (s *AuthService) SetPassword(user *models.AppUser, newPassword string) error {
	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepository.UpdatePassword(user.UserID, hash); err != nil {
		return err
	}

	user.UserPassword = hash
	return nil
}

// SerializedUser is the public-safe projection of a user
type SerializedUser struct {
	UserID      int64             `json:"user_id"`
	Username    string            `json:"username"`
	UserEmail   string            `json:"user_email"`
	DisplayName models.NullString `json:"display_name"`
	IsVerified  bool              `json:"is_verified"`
}

// SerializeUser projects the public-safe fields of a user, never the hash
func (s *AuthService) SerializeUser(user *models.AppUser) SerializedUser {
	return SerializedUser{
		UserID:      user.UserID,
		Username:    user.Username,
		UserEmail:   user.UserEmail,
		DisplayName: user.DisplayName,
		IsVerified:  user.IsVerified,
	}
}
