package models

import (
	"strings"
	"time"
)

// Employment statuses
const (
	EmploymentStatusActive   = "active"
	EmploymentStatusInactive = "inactive"
)

// Invite statuses
const (
	InviteStatusPending  = "pending"
	InviteStatusSent     = "sent"
	InviteStatusAccepted = "accepted"
)

// DefaultInvitePosition is used when an invite does not name a position
const DefaultInvitePosition = "Employee"

// Employment links a user to a company (and optionally a location) with a
// position. (user_id, comp_id, location_id) is unique.
type Employment struct {
	EmpID      int64     `json:"emp_id" db:"emp_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	CompID     int64     `json:"comp_id" db:"comp_id"`
	LocationID NullInt64 `json:"location_id,omitempty" db:"location_id"`
	Position   string    `json:"position" db:"position"`
	Status     string    `json:"status" db:"status"`
	StartDate  time.Time `json:"start_date" db:"start_date"`
	EndDate    NullTime  `json:"end_date,omitempty" db:"end_date"`
}

// CanInvite reports whether the employment's position may create invites
func (e *Employment) CanInvite() bool {
	switch strings.ToLower(e.Position) {
	case "owner", "manager", "admin":
		return true
	}
	return false
}

// OnboardingInvite represents a pending request for an email to join a company
type OnboardingInvite struct {
	FormID     int64     `json:"form_id" db:"form_id"`
	CompID     int64     `json:"comp_id" db:"comp_id"`
	LocationID NullInt64 `json:"location_id,omitempty" db:"location_id"`
	Email      string    `json:"email" db:"email"`
	Status     string    `json:"status" db:"status"`
}

// IsActive reports whether the invite can still be accepted. "sent" is a
// pre-acceptance state equivalent to "pending".
func (i *OnboardingInvite) IsActive() bool {
	return i.Status == InviteStatusPending || i.Status == InviteStatusSent
}
