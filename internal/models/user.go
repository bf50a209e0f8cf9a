package models

import (
	"time"

	"github.com/google/uuid"
)

// AppUser represents a user account
type AppUser struct {
	UserID       int64      `json:"user_id" db:"user_id"`
	Username     string     `json:"username" db:"username"`
	UserEmail    string     `json:"user_email" db:"user_email"`
	UserPassword string     `json:"-" db:"user_password"` // Never expose the hash
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	DisplayName  NullString `json:"display_name,omitempty" db:"display_name"`
}

// UserDocument represents a document attached to a user at a company
type UserDocument struct {
	DocID   int64  `json:"doc_id" db:"doc_id"`
	UserID  int64  `json:"user_id" db:"user_id"`
	CompID  int64  `json:"comp_id" db:"comp_id"`
	DocName string `json:"doc_name" db:"doc_name"`
}

// RefreshToken represents a persisted JWT refresh token
type RefreshToken struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     int64      `json:"user_id" db:"user_id"`
	TokenHash  string     `json:"-" db:"token_hash"` // Never expose
	DeviceType NullString `json:"device_type,omitempty" db:"device_type"`
	IPAddress  NullString `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  NullString `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	LastUsedAt NullTime   `json:"last_used_at,omitempty" db:"last_used_at"`
	Revoked    bool       `json:"revoked" db:"revoked"`
	RevokedAt  NullTime   `json:"revoked_at,omitempty" db:"revoked_at"`
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID         int64      `json:"id" db:"id"`
	UserID     NullInt64  `json:"user_id,omitempty" db:"user_id"`
	Action     string     `json:"action" db:"action"`
	EntityType NullString `json:"entity_type,omitempty" db:"entity_type"`
	EntityID   NullInt64  `json:"entity_id,omitempty" db:"entity_id"`
	IPAddress  NullString `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  NullString `json:"user_agent,omitempty" db:"user_agent"`
	Details    NullString `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
