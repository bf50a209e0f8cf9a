package services

import (
	"encoding/json"
	"fmt"

	"github.com/workscheduler/scheduling-backend/internal/database"
	"github.com/workscheduler/scheduling-backend/internal/utils"
)

// AuditService handles audit logging for security events
type AuditService struct {
	db database.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db database.DB) *AuditService {
	return &AuditService{
		db: db,
	}
}

// AuditEvent represents a security event to be logged
type AuditEvent struct {
	UserID     *int64                 // Can be nil for pre-authentication events
	Action     string                 // e.g. "login_success", "invite_created"
	EntityType string                 // e.g. "user", "invite", "company"
	EntityID   *int64                 // ID of the affected entity (can be nil)
	IPAddress  string                 // Client IP address
	UserAgent  string                 // Client user agent
	Details    map[string]interface{} // Additional details stored as JSONB
}

// LogLogin logs a login attempt
func (s *AuditService) LogLogin(userID *int64, email string, success bool, ipAddress, userAgent, reason string) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	details := map[string]interface{}{
		"email":       email,
		"success":     success,
		"device_info": deviceInfo,
	}

	if !success && reason != "" {
		details["failure_reason"] = reason
	}

	action := "login_failed"
	if success {
		action = "login_success"
	}

	return s.logEvent(AuditEvent{
		UserID:     userID,
		Action:     action,
		EntityType: "user",
		EntityID:   userID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogRegistration logs a completed signup-wizard registration
func (s *AuditService) LogRegistration(userID, compID int64, ipAddress, userAgent string) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     "registration",
		EntityType: "company",
		EntityID:   &compID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"comp_id":     compID,
			"device_info": deviceInfo,
		},
	})
}

// LogInviteCreated logs the creation of an onboarding invite
func (s *AuditService) LogInviteCreated(userID, formID, compID int64, email, position, ipAddress, userAgent string) error {
	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     "invite_created",
		EntityType: "invite",
		EntityID:   &formID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"comp_id":  compID,
			"email":    email,
			"position": position,
		},
	})
}

// LogInviteAccepted logs an onboarding invite acceptance
func (s *AuditService) LogInviteAccepted(userID, formID, compID int64, ipAddress, userAgent string) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     "invite_accepted",
		EntityType: "invite",
		EntityID:   &formID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"comp_id":     compID,
			"device_info": deviceInfo,
		},
	})
}

// logEvent persists an audit event
func (s *AuditService) logEvent(event AuditEvent) error {
	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	detailsJSON, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	_, err = s.db.Exec(
		query,
		event.UserID,
		event.Action,
		event.EntityType,
		event.EntityID,
		event.IPAddress,
		event.UserAgent,
		detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}

	return nil
}
