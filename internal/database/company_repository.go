package database

import (
	"database/sql"
	"fmt"

	"github.com/workscheduler/scheduling-backend/internal/models"
)

// CompanyRepository handles company and location database operations
type CompanyRepository struct {
	db DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db DB) *CompanyRepository {
	return &CompanyRepository{
		db: db,
	}
}

// GetCompanyByID retrieves a company by ID
func (r *CompanyRepository) GetCompanyByID(id int64) (*models.Company, error) {
	var company models.Company

	query := `
		SELECT comp_id, comp_name, comp_email, comp_address, is_verified
		FROM company
		WHERE comp_id = $1
	`

	err := r.db.Get(&company, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Company not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get company by ID: %w", err)
	}

	return &company, nil
}

// GetLocationByID retrieves a location by ID
func (r *CompanyRepository) GetLocationByID(id int64) (*models.Location, error) {
	var location models.Location

	query := `
		SELECT loc_id, comp_id, loc_name, loc_address
		FROM location
		WHERE loc_id = $1
	`

	err := r.db.Get(&location, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Location not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get location by ID: %w", err)
	}

	return &location, nil
}

// ListLocationsByCompany retrieves all locations of a company
func (r *CompanyRepository) ListLocationsByCompany(compID int64) ([]*models.Location, error) {
	var locations []*models.Location

	query := `
		SELECT loc_id, comp_id, loc_name, loc_address
		FROM location
		WHERE comp_id = $1
		ORDER BY loc_id
	`

	err := r.db.Select(&locations, query, compID)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	return locations, nil
}
