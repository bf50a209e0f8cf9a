package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/workscheduler/scheduling-backend/internal/models"
)

// EmploymentRepository handles employment database operations
type EmploymentRepository struct {
	db DB
}

// NewEmploymentRepository creates a new employment repository
func NewEmploymentRepository(db DB) *EmploymentRepository {
	return &EmploymentRepository{
		db: db,
	}
}

// CreateEmployment inserts an employment row. Callers must check
// IsUniqueViolation on the returned error to detect an existing
// (user, company, location) link.
func (r *EmploymentRepository) CreateEmployment(userID, compID int64, locationID models.NullInt64, position string) (*models.Employment, error) {
	employment := &models.Employment{
		UserID:     userID,
		CompID:     compID,
		LocationID: locationID,
		Position:   position,
		Status:     models.EmploymentStatusActive,
		StartDate:  time.Now(),
	}

	query := `
		INSERT INTO employment (user_id, comp_id, location_id, position, status, start_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING emp_id
	`

	err := r.db.QueryRow(
		query,
		employment.UserID,
		employment.CompID,
		employment.LocationID,
		employment.Position,
		employment.Status,
		employment.StartDate,
	).Scan(&employment.EmpID)
	if err != nil {
		return nil, fmt.Errorf("failed to create employment: %w", err)
	}

	return employment, nil
}

// GetActiveEmployment retrieves the caller's active employment at a company.
// Used for role checks on invite creation and schedule management.
func (r *EmploymentRepository) GetActiveEmployment(userID, compID int64) (*models.Employment, error) {
	var employment models.Employment

	query := `
		SELECT emp_id, user_id, comp_id, location_id, position, status, start_date, end_date
		FROM employment
		WHERE user_id = $1 AND comp_id = $2 AND status = $3
		LIMIT 1
	`

	err := r.db.Get(&employment, query, userID, compID, models.EmploymentStatusActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No active employment
		}
		return nil, fmt.Errorf("failed to get active employment: %w", err)
	}

	return &employment, nil
}

// ListEmploymentsByUser retrieves all employments of a user
func (r *EmploymentRepository) ListEmploymentsByUser(userID int64) ([]*models.Employment, error) {
	var employments []*models.Employment

	query := `
		SELECT emp_id, user_id, comp_id, location_id, position, status, start_date, end_date
		FROM employment
		WHERE user_id = $1
		ORDER BY emp_id
	`

	err := r.db.Select(&employments, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employments: %w", err)
	}

	return employments, nil
}
