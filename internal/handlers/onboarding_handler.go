package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/workscheduler/scheduling-backend/internal/database"
	"github.com/workscheduler/scheduling-backend/internal/middleware"
	"github.com/workscheduler/scheduling-backend/internal/services"
	"github.com/workscheduler/scheduling-backend/internal/utils"
)

// OnboardingHandler handles onboarding invite HTTP requests
type OnboardingHandler struct {
	onboardingService    *services.OnboardingService
	auditService         *services.AuditService
	employmentRepository *database.EmploymentRepository
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(
	onboardingService *services.OnboardingService,
	auditService *services.AuditService,
	employmentRepository *database.EmploymentRepository,
) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingService:    onboardingService,
		auditService:         auditService,
		employmentRepository: employmentRepository,
	}
}

// CreateInviteRequest represents the invite creation request body
type CreateInviteRequest struct {
	CompID     int64  `json:"comp_id" binding:"required"`
	Email      string `json:"email" binding:"required"`
	LocationID *int64 `json:"location_id"`
	Position   string `json:"position"`
	TTLDays    int    `json:"ttl_days"`
}

// CreateInvite handles POST /api/v1/onboarding/invite. The caller must hold
// an active owner/manager/admin employment at the target company.
func (h *OnboardingHandler) CreateInvite(c *gin.Context) {
	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "comp_id and email are required",
		})
		return
	}

	userCtx := middleware.MustGetUserContext(c)

	employment, err := h.employmentRepository.GetActiveEmployment(userCtx.UserID, req.CompID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if employment == nil || !employment.CanInvite() {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "not authorized to invite",
		})
		return
	}

	result, err := h.onboardingService.CreateInvite(req.CompID, req.Email, req.LocationID, req.Position, req.TTLDays)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogInviteCreated(
		userCtx.UserID,
		result.Invite.FormID,
		result.Invite.CompID,
		result.Invite.Email,
		req.Position,
		utils.GetRealIP(c),
		utils.GetUserAgent(c),
	)

	// The token is returned to the caller; emailing the link is up to the
	// frontend for now.
	c.JSON(http.StatusCreated, gin.H{
		"form_id":      result.Invite.FormID,
		"status":       result.Invite.Status,
		"invite_token": result.Token,
	})
}

// Prevalidate handles GET /api/v1/onboarding/validate?token=...
// It lets the signup screen confirm the token and show company/location
// context without mutating anything.
func (h *OnboardingHandler) Prevalidate(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "token required",
		})
		return
	}

	info, err := h.onboardingService.Prevalidate(token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// AcceptInviteRequest represents the invite acceptance request body
type AcceptInviteRequest struct {
	Token           string `json:"token" binding:"required"`
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// Accept handles POST /api/v1/onboarding/accept
func (h *OnboardingHandler) Accept(c *gin.Context) {
	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "token, username, password, confirm_password are required",
		})
		return
	}

	result, err := h.onboardingService.AcceptInvite(req.Token, req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogInviteAccepted(result.UserID, result.FormID, result.CompID, utils.GetRealIP(c), utils.GetUserAgent(c))

	c.JSON(http.StatusCreated, result)
}
