package models

import "time"

// Shift statuses
const (
	ShiftStatusDraft     = "draft"
	ShiftStatusPublished = "published"
	ShiftStatusCancelled = "cancelled"
)

// Shift represents a work shift at a location
type Shift struct {
	ShiftID    int64     `json:"shift_id" db:"shift_id"`
	LocationID int64     `json:"location_id" db:"location_id"`
	StartTime  time.Time `json:"start_time" db:"start_time"`
	EndTime    time.Time `json:"end_time" db:"end_time"`
	Status     string    `json:"status" db:"status"`
}

// ShiftAssignment links a user to a shift. (shift_id, user_id) is the
// composite primary key.
type ShiftAssignment struct {
	ShiftID    int64     `json:"shift_id" db:"shift_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`
}

// Availability represents a weekly availability window for a user at a
// location. Times are "HH:MM" strings, day of week is mon..sun.
type Availability struct {
	AvailabilityID int64  `json:"availability_id" db:"availability_id"`
	UserID         int64  `json:"user_id" db:"user_id"`
	LocationID     int64  `json:"location_id" db:"location_id"`
	DayOfWeek      string `json:"day_of_week" db:"day_of_week"`
	StartTime      string `json:"start_time" db:"start_time"`
	EndTime        string `json:"end_time" db:"end_time"`
}

// ValidDayOfWeek reports whether d is one of mon..sun
func ValidDayOfWeek(d string) bool {
	switch d {
	case "mon", "tue", "wed", "thu", "fri", "sat", "sun":
		return true
	}
	return false
}
