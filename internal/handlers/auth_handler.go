package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/workscheduler/scheduling-backend/internal/database"
	"github.com/workscheduler/scheduling-backend/internal/middleware"
	"github.com/workscheduler/scheduling-backend/internal/models"
	"github.com/workscheduler/scheduling-backend/internal/services"
	"github.com/workscheduler/scheduling-backend/internal/utils"
	"github.com/workscheduler/scheduling-backend/pkg/jwt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	jwtService             *jwt.Service
	authService            *services.AuthService
	registrationService    *services.RegistrationService
	auditService           *services.AuditService
	userRepository         *database.UserRepository
	refreshTokenRepository *database.RefreshTokenRepository
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	jwtService *jwt.Service,
	authService *services.AuthService,
	registrationService *services.RegistrationService,
	auditService *services.AuditService,
	userRepository *database.UserRepository,
	refreshTokenRepository *database.RefreshTokenRepository,
) *AuthHandler {
	return &AuthHandler{
		jwtService:             jwtService,
		authService:            authService,
		registrationService:    registrationService,
		auditService:           auditService,
		userRepository:         userRepository,
		refreshTokenRepository: refreshTokenRepository,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// respondServiceError maps domain errors to 4xx responses; anything
// unexpected becomes a 500.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Error(),
			Details: validationErr.Sections,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "duplicate_email",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrCompanyNotFound),
		errors.Is(err, services.ErrInvalidLocation),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrInviteNotActive),
		errors.Is(err, services.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid credentials, try again with correct details",
		})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong",
		})
	}
}

// TokenPair bundles the session tokens returned on login/registration
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// issueTokens generates a token pair and persists the refresh token with
// device metadata
func (h *AuthHandler) issueTokens(c *gin.Context, user *models.AppUser) (*TokenPair, error) {
	access, err := h.jwtService.GenerateAccessToken(user.UserID, user.UserEmail)
	if err != nil {
		return nil, err
	}

	refresh, err := h.jwtService.GenerateRefreshToken(user.UserID, user.UserEmail)
	if err != nil {
		return nil, err
	}

	userAgent := utils.GetUserAgent(c)
	deviceInfo := utils.ParseUserAgent(userAgent)

	err = h.refreshTokenRepository.StoreRefreshToken(
		user.UserID,
		refresh,
		deviceInfo.DeviceType,
		utils.GetRealIP(c),
		userAgent,
		time.Now().Add(h.jwtService.RefreshTokenExpiry()),
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RegisterResponse is the payload returned by a successful registration
type RegisterResponse struct {
	Company      *models.Company         `json:"company"`
	Location     *models.Location        `json:"location"`
	Owner        services.SerializedUser `json:"owner"`
	AccessToken  string                  `json:"access_token"`
	RefreshToken string                  `json:"refresh_token"`
}

// Register handles POST /api/v1/auth/register (the signup wizard)
func (h *AuthHandler) Register(c *gin.Context) {
	var payload services.RegistrationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	result, err := h.registrationService.RegisterWizard(&payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tokens, err := h.issueTokens(c, result.Owner)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogRegistration(result.Owner.UserID, result.Company.CompID, utils.GetRealIP(c), utils.GetUserAgent(c))

	c.JSON(http.StatusCreated, RegisterResponse{
		Company:      result.Company,
		Location:     result.Location,
		Owner:        h.authService.SerializeUser(result.Owner),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the payload returned by a successful login
type LoginResponse struct {
	User         services.SerializedUser `json:"user"`
	AccessToken  string                  `json:"access_token"`
	RefreshToken string                  `json:"refresh_token"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "email and password are required",
		})
		return
	}

	user, err := h.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if user == nil {
		// Unknown email and wrong password are indistinguishable
		h.auditService.LogLogin(nil, req.Email, false, utils.GetRealIP(c), utils.GetUserAgent(c), "bad_credentials")
		respondServiceError(c, services.ErrInvalidCredentials)
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auditService.LogLogin(&user.UserID, req.Email, true, utils.GetRealIP(c), utils.GetUserAgent(c), "")

	c.JSON(http.StatusOK, LoginResponse{
		User:         h.authService.SerializeUser(user),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// RefreshRequest represents the refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh handles POST /api/v1/auth/refresh. The token must carry a valid
// signature and still exist unrevoked and unexpired in storage.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "refresh_token is required",
		})
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired refresh token",
		})
		return
	}

	stored, err := h.refreshTokenRepository.GetRefreshToken(req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if stored == nil || stored.Revoked || stored.ExpiresAt.Before(time.Now()) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Refresh token is revoked or expired",
		})
		return
	}

	access, err := h.jwtService.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.refreshTokenRepository.TouchRefreshToken(req.RefreshToken)

	c.JSON(http.StatusOK, gin.H{
		"access_token": access,
	})
}

// Logout handles POST /api/v1/auth/logout by revoking the presented
// refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "refresh_token is required",
		})
		return
	}

	if _, err := h.jwtService.ValidateRefreshToken(req.RefreshToken); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid refresh token",
		})
		return
	}

	if err := h.refreshTokenRepository.RevokeRefreshToken(req.RefreshToken); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	c.JSON(http.StatusOK, gin.H{
		"user_id": userCtx.UserID,
	})
}
