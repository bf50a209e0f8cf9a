package database

import (
	"fmt"

	"github.com/workscheduler/scheduling-backend/internal/models"
)

// AvailabilityRepository handles availability database operations
type AvailabilityRepository struct {
	db DB
}

// NewAvailabilityRepository creates a new availability repository
func NewAvailabilityRepository(db DB) *AvailabilityRepository {
	return &AvailabilityRepository{
		db: db,
	}
}

// CreateAvailability records a weekly availability window for a user
func (r *AvailabilityRepository) CreateAvailability(userID, locationID int64, dayOfWeek, startTime, endTime string) (*models.Availability, error) {
	availability := &models.Availability{
		UserID:     userID,
		LocationID: locationID,
		DayOfWeek:  dayOfWeek,
		StartTime:  startTime,
		EndTime:    endTime,
	}

	query := `
		INSERT INTO availability (user_id, location_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING availability_id
	`

	err := r.db.QueryRow(
		query,
		availability.UserID,
		availability.LocationID,
		availability.DayOfWeek,
		availability.StartTime,
		availability.EndTime,
	).Scan(&availability.AvailabilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability: %w", err)
	}

	return availability, nil
}

// ListAvailabilityByUser retrieves all availability windows of a user
func (r *AvailabilityRepository) ListAvailabilityByUser(userID int64) ([]*models.Availability, error) {
	var availabilities []*models.Availability

	query := `
		SELECT availability_id, user_id, location_id, day_of_week,
		       start_time::text AS start_time, end_time::text AS end_time
		FROM availability
		WHERE user_id = $1
		ORDER BY availability_id
	`

	err := r.db.Select(&availabilities, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}

	return availabilities, nil
}
