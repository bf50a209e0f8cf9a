package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/workscheduler/scheduling-backend/internal/models"
)

// InviteRepository handles onboarding invite database operations
type InviteRepository struct {
	db DB
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(db DB) *InviteRepository {
	return &InviteRepository{
		db: db,
	}
}

// CreateInvite persists a pending invite row
func (r *InviteRepository) CreateInvite(compID int64, locationID models.NullInt64, email string) (*models.OnboardingInvite, error) {
	invite := &models.OnboardingInvite{
		CompID:     compID,
		LocationID: locationID,
		Email:      email,
		Status:     models.InviteStatusPending,
	}

	query := `
		INSERT INTO onboarding_invite (comp_id, location_id, email, status)
		VALUES ($1, $2, $3, $4)
		RETURNING form_id
	`

	err := r.db.QueryRow(query, invite.CompID, invite.LocationID, invite.Email, invite.Status).Scan(&invite.FormID)
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	return invite, nil
}

// GetInviteByID retrieves an invite by its form ID
func (r *InviteRepository) GetInviteByID(formID int64) (*models.OnboardingInvite, error) {
	var invite models.OnboardingInvite

	query := `
		SELECT form_id, comp_id, location_id, email, status
		FROM onboarding_invite
		WHERE form_id = $1
	`

	err := r.db.Get(&invite, query, formID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Invite not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get invite by ID: %w", err)
	}

	return &invite, nil
}

// UpdateStatus sets the invite status
func (r *InviteRepository) UpdateStatus(formID int64, status string) error {
	query := `
		UPDATE onboarding_invite
		SET status = $1
		WHERE form_id = $2
	`

	result, err := r.db.Exec(query, status, formID)
	if err != nil {
		return fmt.Errorf("failed to update invite status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("invite not found")
	}

	return nil
}

// AcceptInvite links the employment and marks the invite accepted in one
// transaction. There is deliberately no pre-check on the employment: the
// unique constraint on (user_id, comp_id, location_id) is the only guard
// against concurrent acceptances resolving to the same triple. Postgres
// aborts the transaction after a constraint violation, so the duplicate
// branch rolls back and marks the invite accepted in a fresh statement.
func (r *InviteRepository) AcceptInvite(formID, userID, compID int64, locationID models.NullInt64, position string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO employment (user_id, comp_id, location_id, position, status, start_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, compID, locationID, position, models.EmploymentStatusActive, time.Now())
	if err != nil {
		if IsUniqueViolation(err) {
			// Already employed there. The invite is still considered
			// accepted, but the aborted transaction cannot carry the
			// status update.
			tx.Rollback()
			return r.UpdateStatus(formID, models.InviteStatusAccepted)
		}
		return fmt.Errorf("failed to create employment: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE onboarding_invite
		SET status = $1
		WHERE form_id = $2
	`, models.InviteStatusAccepted, formID)
	if err != nil {
		return fmt.Errorf("failed to mark invite accepted: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invite acceptance: %w", err)
	}

	return nil
}
