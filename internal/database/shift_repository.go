package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/workscheduler/scheduling-backend/internal/models"
)

// ShiftRepository handles shift and shift assignment database operations
type ShiftRepository struct {
	db DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db DB) *ShiftRepository {
	return &ShiftRepository{
		db: db,
	}
}

// CreateShift creates a shift at a location. End-before-start is not
// rejected here; the schema never enforced it.
func (r *ShiftRepository) CreateShift(locationID int64, startTime, endTime time.Time) (*models.Shift, error) {
	shift := &models.Shift{
		LocationID: locationID,
		StartTime:  startTime,
		EndTime:    endTime,
		Status:     models.ShiftStatusDraft,
	}

	query := `
		INSERT INTO shift (location_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4)
		RETURNING shift_id
	`

	err := r.db.QueryRow(query, shift.LocationID, shift.StartTime, shift.EndTime, shift.Status).Scan(&shift.ShiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}

	return shift, nil
}

// GetShiftByID retrieves a shift by ID
func (r *ShiftRepository) GetShiftByID(id int64) (*models.Shift, error) {
	var shift models.Shift

	query := `
		SELECT shift_id, location_id, start_time, end_time, status
		FROM shift
		WHERE shift_id = $1
	`

	err := r.db.Get(&shift, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Shift not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get shift by ID: %w", err)
	}

	return &shift, nil
}

// ListShiftsByLocation retrieves shifts of a location ordered by start time
func (r *ShiftRepository) ListShiftsByLocation(locationID int64) ([]*models.Shift, error) {
	var shifts []*models.Shift

	query := `
		SELECT shift_id, location_id, start_time, end_time, status
		FROM shift
		WHERE location_id = $1
		ORDER BY start_time
	`

	err := r.db.Select(&shifts, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	return shifts, nil
}

// UpdateShiftStatus sets the shift status
func (r *ShiftRepository) UpdateShiftStatus(id int64, status string) error {
	query := `
		UPDATE shift
		SET status = $1
		WHERE shift_id = $2
	`

	result, err := r.db.Exec(query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update shift status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("shift not found")
	}

	return nil
}

// AssignUser creates a shift assignment. The composite primary key
// (shift_id, user_id) makes a second assignment a unique violation.
func (r *ShiftRepository) AssignUser(shiftID, userID int64) (*models.ShiftAssignment, error) {
	assignment := &models.ShiftAssignment{
		ShiftID:    shiftID,
		UserID:     userID,
		AssignedAt: time.Now(),
	}

	query := `
		INSERT INTO shift_assignment (shift_id, user_id, assigned_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(query, assignment.ShiftID, assignment.UserID, assignment.AssignedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to assign user to shift: %w", err)
	}

	return assignment, nil
}

// ListAssignmentsByShift retrieves all assignments of a shift
func (r *ShiftRepository) ListAssignmentsByShift(shiftID int64) ([]*models.ShiftAssignment, error) {
	var assignments []*models.ShiftAssignment

	query := `
		SELECT shift_id, user_id, assigned_at
		FROM shift_assignment
		WHERE shift_id = $1
		ORDER BY assigned_at
	`

	err := r.db.Select(&assignments, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}

	return assignments, nil
}
