package services

import (
	"strings"
	"time"

	"github.com/workscheduler/scheduling-backend/internal/database"
	"github.com/workscheduler/scheduling-backend/internal/models"
	"github.com/workscheduler/scheduling-backend/pkg/jwt"
)

// DefaultInviteTTLDays is the invite token lifetime when none is requested
const DefaultInviteTTLDays = 7

// OnboardingService handles company-driven onboarding:
// managers create invites, invitees prevalidate and accept them.
// The signed token is the transport; the invite row tracks status.
type OnboardingService struct {
	auth           *AuthService
	jwtService     *jwt.Service
	inviteRepo     *database.InviteRepository
	companyRepo    *database.CompanyRepository
	userRepo       *database.UserRepository
	employmentRepo *database.EmploymentRepository
}

// NewOnboardingService creates a new onboarding service
func NewOnboardingService(
	auth *AuthService,
	jwtService *jwt.Service,
	inviteRepo *database.InviteRepository,
	companyRepo *database.CompanyRepository,
	userRepo *database.UserRepository,
	employmentRepo *database.EmploymentRepository,
) *OnboardingService {
	return &OnboardingService{
		auth:           auth,
		jwtService:     jwtService,
		inviteRepo:     inviteRepo,
		companyRepo:    companyRepo,
		userRepo:       userRepo,
		employmentRepo: employmentRepo,
	}
}

// CreateInviteResult holds the persisted invite and its transport token
type CreateInviteResult struct {
	Invite *models.OnboardingInvite
	Token  string
}

// CreateInvite verifies the company (and, if given, the location's
// ownership), persists a pending invite row, and mints a signed expiring
// token carrying the invite claims.
func (s *OnboardingService) CreateInvite(compID int64, email string, locationID *int64, position string, ttlDays int) (*CreateInviteResult, error) {
	company, err := s.companyRepo.GetCompanyByID(compID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}

	if locationID != nil {
		location, err := s.companyRepo.GetLocationByID(*locationID)
		if err != nil {
			return nil, err
		}
		if location == nil || location.CompID != compID {
			return nil, ErrInvalidLocation
		}
	}

	if position == "" {
		position = models.DefaultInvitePosition
	}
	if ttlDays <= 0 {
		ttlDays = DefaultInviteTTLDays
	}

	invite, err := s.inviteRepo.CreateInvite(compID, models.Int64FromPtr(locationID), strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateInviteToken(
		invite.FormID,
		invite.CompID,
		locationID,
		invite.Email,
		position,
		time.Duration(ttlDays)*24*time.Hour,
	)
	if err != nil {
		return nil, err
	}

	return &CreateInviteResult{Invite: invite, Token: token}, nil
}

// EntitySummary is a minimal id/name pair for display
type EntitySummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PrevalidateResult is the display context for an invite link
type PrevalidateResult struct {
	Email    string         `json:"email"`
	Position string         `json:"position"`
	Company  *EntitySummary `json:"company"`
	Location *EntitySummary `json:"location"`
}

// Prevalidate decodes an invite token and returns its display context
// without mutating any state. The invite row status is not checked here.
func (s *OnboardingService) Prevalidate(token string) (*PrevalidateResult, error) {
	claims, err := s.jwtService.ValidateInviteToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	result := &PrevalidateResult{
		Email:    claims.Email,
		Position: claims.Position,
	}

	company, err := s.companyRepo.GetCompanyByID(claims.CompID)
	if err != nil {
		return nil, err
	}
	if company != nil {
		result.Company = &EntitySummary{ID: company.CompID, Name: company.CompName}
	}

	if claims.LocationID != nil {
		location, err := s.companyRepo.GetLocationByID(*claims.LocationID)
		if err != nil {
			return nil, err
		}
		if location != nil {
			result.Location = &EntitySummary{ID: location.LocID, Name: location.LocName}
		}
	}

	return result, nil
}

// AcceptInviteResult is the outcome of a successful acceptance
type AcceptInviteResult struct {
	FormID       int64  `json:"-"`
	UserID       int64  `json:"user_id"`
	CompID       int64  `json:"comp_id"`
	LocationID   *int64 `json:"location_id"`
	Position     string `json:"position"`
	InviteStatus string `json:"invite_status"`
}

// AcceptInvite decodes the token, creates or reuses the invited user, links
// the employment, and marks the invite accepted. An existing user's
// password is never changed here; a concurrent acceptance that already
// linked the employment still counts as success.
func (s *OnboardingService) AcceptInvite(token, username, password, confirmPassword string) (*AcceptInviteResult, error) {
	claims, err := s.jwtService.ValidateInviteToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}

	invite, err := s.inviteRepo.GetInviteByID(claims.FormID)
	if err != nil {
		return nil, err
	}
	if invite == nil || !invite.IsActive() {
		return nil, ErrInviteNotActive
	}

	position := claims.Position
	if position == "" {
		position = models.DefaultInvitePosition
	}

	// Reuse an existing account for the invited email, otherwise create
	// one with the supplied credentials
	user, err := s.userRepo.GetUserByEmail(claims.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.auth.RegisterUser(username, claims.Email, password, "")
		if err != nil {
			return nil, err
		}
	}

	err = s.inviteRepo.AcceptInvite(
		invite.FormID,
		user.UserID,
		claims.CompID,
		models.Int64FromPtr(claims.LocationID),
		position,
	)
	if err != nil {
		return nil, err
	}

	return &AcceptInviteResult{
		FormID:       invite.FormID,
		UserID:       user.UserID,
		CompID:       claims.CompID,
		LocationID:   claims.LocationID,
		Position:     position,
		InviteStatus: models.InviteStatusAccepted,
	}, nil
}
