package services

import (
	"strings"

	"github.com/workscheduler/scheduling-backend/internal/database"
)

// RegistrationService handles the multi-step signup wizard in a single DB
// transaction. Order: 1) Owner account, 2) Company, 3) First location,
// plus the Owner employment linking all three.
type RegistrationService struct {
	auth             *AuthService
	registrationRepo *database.RegistrationRepository
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(auth *AuthService, registrationRepo *database.RegistrationRepository) *RegistrationService {
	return &RegistrationService{
		auth:             auth,
		registrationRepo: registrationRepo,
	}
}

// OwnerPayload is the owner account section of the wizard
type OwnerPayload struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	ConfirmPassword *string `json:"confirm_password"`
}

// CompanyPayload is the company section of the wizard
type CompanyPayload struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postal_code"`
}

// LocationPayload is the first-location section of the wizard
type LocationPayload struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	PostalCode *string `json:"postal_code"`
}

// RegistrationPayload is the full wizard payload
type RegistrationPayload struct {
	Owner    *OwnerPayload    `json:"owner"`
	Company  *CompanyPayload  `json:"company"`
	Location *LocationPayload `json:"location"`
}

// formatCompanyAddress joins address, city, country and postal code,
// omitting empty parts
func formatCompanyAddress(address, city, country, postal string) string {
	parts := []string{}
	for _, p := range []string{address, city, country, postal} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// formatLocationAddress joins address and postal code
func formatLocationAddress(address, postal string) string {
	return address + ", " + postal
}

// missingOwnerFields lists required owner fields absent from the payload
func missingOwnerFields(o *OwnerPayload) []string {
	var missing []string
	if o == nil {
		return []string{"username", "email", "password", "confirm_password"}
	}
	if o.Username == nil {
		missing = append(missing, "username")
	}
	if o.Email == nil {
		missing = append(missing, "email")
	}
	if o.Password == nil {
		missing = append(missing, "password")
	}
	if o.ConfirmPassword == nil {
		missing = append(missing, "confirm_password")
	}
	return missing
}

// missingCompanyFields lists required company fields absent from the payload
func missingCompanyFields(c *CompanyPayload) []string {
	var missing []string
	if c == nil {
		return []string{"name", "email", "address", "city", "country", "postal_code"}
	}
	if c.Name == nil {
		missing = append(missing, "name")
	}
	if c.Email == nil {
		missing = append(missing, "email")
	}
	if c.Address == nil {
		missing = append(missing, "address")
	}
	if c.City == nil {
		missing = append(missing, "city")
	}
	if c.Country == nil {
		missing = append(missing, "country")
	}
	if c.PostalCode == nil {
		missing = append(missing, "postal_code")
	}
	return missing
}

// missingLocationFields lists required location fields absent from the payload
func missingLocationFields(l *LocationPayload) []string {
	var missing []string
	if l == nil {
		return []string{"name", "address", "postal_code"}
	}
	if l.Name == nil {
		missing = append(missing, "name")
	}
	if l.Address == nil {
		missing = append(missing, "address")
	}
	if l.PostalCode == nil {
		missing = append(missing, "postal_code")
	}
	return missing
}

// RegisterWizard validates the payload and creates owner, company, location
// and the Owner employment atomically. No rows are written on any
// validation failure, and a duplicate owner or company email rolls the
// whole transaction back.
func (s *RegistrationService) RegisterWizard(payload *RegistrationPayload) (*database.RegistrationResult, error) {
	if payload == nil {
		payload = &RegistrationPayload{}
	}

	// Validate presence of every required field, per section
	if err := NewMissingFieldsError(map[string][]string{
		"owner":    missingOwnerFields(payload.Owner),
		"company":  missingCompanyFields(payload.Company),
		"location": missingLocationFields(payload.Location),
	}); err != nil {
		return nil, err
	}

	owner := payload.Owner
	company := payload.Company
	location := payload.Location

	if *owner.Password != *owner.ConfirmPassword {
		return nil, &ValidationError{Sections: map[string]string{
			"owner": "password and confirm_password do not match",
		}}
	}

	compAddr := formatCompanyAddress(
		strings.TrimSpace(*company.Address),
		strings.TrimSpace(*company.City),
		strings.TrimSpace(*company.Country),
		strings.TrimSpace(*company.PostalCode),
	)
	locAddr := formatLocationAddress(
		strings.TrimSpace(*location.Address),
		strings.TrimSpace(*location.PostalCode),
	)

	hash, err := s.auth.HashPassword(*owner.Password)
	if err != nil {
		return nil, err
	}

	result, err := s.registrationRepo.CreateOwnerCompanyLocation(
		strings.TrimSpace(*owner.Username),
		strings.TrimSpace(*owner.Email),
		hash,
		strings.TrimSpace(*company.Name),
		strings.TrimSpace(*company.Email),
		compAddr,
		strings.TrimSpace(*location.Name),
		locAddr,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			// Duplicate owner or company email
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return result, nil
}
