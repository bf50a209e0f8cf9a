package database

import (
	"fmt"
	"time"

	"github.com/workscheduler/scheduling-backend/internal/models"
)

// RegistrationRepository performs the signup-wizard inserts in a single
// transaction: owner user, company, first location, and the Owner employment
// linking them. A failure at any step rolls everything back.
type RegistrationRepository struct {
	db DB
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db DB) *RegistrationRepository {
	return &RegistrationRepository{
		db: db,
	}
}

// RegistrationResult holds the rows created by CreateOwnerCompanyLocation
type RegistrationResult struct {
	Owner    *models.AppUser
	Company  *models.Company
	Location *models.Location
}

// CreateOwnerCompanyLocation creates the owner account, the company, its
// first location, and the Owner employment row atomically. Duplicate owner
// or company emails surface as unique-constraint violations; callers detect
// them with IsUniqueViolation.
func (r *RegistrationRepository) CreateOwnerCompanyLocation(
	username, ownerEmail, passwordHash string,
	companyName, companyEmail, companyAddress string,
	locationName, locationAddress string,
) (*RegistrationResult, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Owner account
	owner := &models.AppUser{
		Username:     username,
		UserEmail:    ownerEmail,
		UserPassword: passwordHash,
		IsVerified:   false,
	}

	err = tx.QueryRowx(`
		INSERT INTO app_user (username, user_email, user_password, is_verified)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id
	`, owner.Username, owner.UserEmail, owner.UserPassword, owner.IsVerified).Scan(&owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner user: %w", err)
	}

	// 2. Company
	company := &models.Company{
		CompName:   companyName,
		CompEmail:  companyEmail,
		IsVerified: false,
	}
	if companyAddress != "" {
		company.CompAddress.Valid = true
		company.CompAddress.String = companyAddress
	}

	err = tx.QueryRowx(`
		INSERT INTO company (comp_name, comp_email, comp_address, is_verified)
		VALUES ($1, $2, $3, $4)
		RETURNING comp_id
	`, company.CompName, company.CompEmail, company.CompAddress, company.IsVerified).Scan(&company.CompID)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	// 3. First location
	location := &models.Location{
		CompID:  company.CompID,
		LocName: locationName,
	}
	if locationAddress != "" {
		location.LocAddress.Valid = true
		location.LocAddress.String = locationAddress
	}

	err = tx.QueryRowx(`
		INSERT INTO location (comp_id, loc_name, loc_address)
		VALUES ($1, $2, $3)
		RETURNING loc_id
	`, location.CompID, location.LocName, location.LocAddress).Scan(&location.LocID)
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	// 4. Owner employment link
	_, err = tx.Exec(`
		INSERT INTO employment (user_id, comp_id, location_id, position, status, start_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, owner.UserID, company.CompID, location.LocID, "Owner", models.EmploymentStatusActive, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create owner employment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	return &RegistrationResult{
		Owner:    owner,
		Company:  company,
		Location: location,
	}, nil
}
