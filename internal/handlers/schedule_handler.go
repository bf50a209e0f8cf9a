package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/workscheduler/scheduling-backend/internal/database"
	"github.com/workscheduler/scheduling-backend/internal/middleware"
	"github.com/workscheduler/scheduling-backend/internal/models"
)

// ScheduleHandler handles shift and availability HTTP requests
type ScheduleHandler struct {
	shiftRepository        *database.ShiftRepository
	availabilityRepository *database.AvailabilityRepository
	companyRepository      *database.CompanyRepository
	employmentRepository   *database.EmploymentRepository
	userRepository         *database.UserRepository
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(
	shiftRepository *database.ShiftRepository,
	availabilityRepository *database.AvailabilityRepository,
	companyRepository *database.CompanyRepository,
	employmentRepository *database.EmploymentRepository,
	userRepository *database.UserRepository,
) *ScheduleHandler {
	return &ScheduleHandler{
		shiftRepository:        shiftRepository,
		availabilityRepository: availabilityRepository,
		companyRepository:      companyRepository,
		employmentRepository:   employmentRepository,
		userRepository:         userRepository,
	}
}

// parseIDParam parses a numeric path parameter
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid " + name,
		})
		return 0, false
	}
	return id, true
}

// requireManagerAt checks the caller holds an active owner/manager/admin
// employment at the company, responding 403 otherwise
func (h *ScheduleHandler) requireManagerAt(c *gin.Context, compID int64) bool {
	userCtx := middleware.MustGetUserContext(c)

	employment, err := h.employmentRepository.GetActiveEmployment(userCtx.UserID, compID)
	if err != nil {
		respondServiceError(c, err)
		return false
	}
	if employment == nil || !employment.CanInvite() {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "not authorized to manage schedules for this company",
		})
		return false
	}
	return true
}

// CreateShiftRequest represents the shift creation request body
type CreateShiftRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// CreateShift handles POST /api/v1/locations/:id/shifts
func (h *ScheduleHandler) CreateShift(c *gin.Context) {
	locationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "start_time and end_time are required",
		})
		return
	}

	location, err := h.companyRepository.GetLocationByID(locationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if location == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "location not found",
		})
		return
	}

	if !h.requireManagerAt(c, location.CompID) {
		return
	}

	shift, err := h.shiftRepository.CreateShift(locationID, req.StartTime, req.EndTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, shift)
}

// ListShifts handles GET /api/v1/locations/:id/shifts
func (h *ScheduleHandler) ListShifts(c *gin.Context) {
	locationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	location, err := h.companyRepository.GetLocationByID(locationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if location == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "location not found",
		})
		return
	}

	userCtx := middleware.MustGetUserContext(c)
	employment, err := h.employmentRepository.GetActiveEmployment(userCtx.UserID, location.CompID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if employment == nil {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "not employed at this company",
		})
		return
	}

	shifts, err := h.shiftRepository.ListShiftsByLocation(locationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shifts": shifts,
	})
}

// AssignShiftRequest represents the shift assignment request body
type AssignShiftRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// AssignShift handles POST /api/v1/shifts/:id/assignments
func (h *ScheduleHandler) AssignShift(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "user_id is required",
		})
		return
	}

	shift, err := h.shiftRepository.GetShiftByID(shiftID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if shift == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "shift not found",
		})
		return
	}

	location, err := h.companyRepository.GetLocationByID(shift.LocationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if location == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "location not found",
		})
		return
	}

	if !h.requireManagerAt(c, location.CompID) {
		return
	}

	assignee, err := h.userRepository.GetUserByID(req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if assignee == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "user not found",
		})
		return
	}

	assignment, err := h.shiftRepository.AssignUser(shiftID, req.UserID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "already_assigned",
				Message: "user is already assigned to this shift",
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// CreateAvailabilityRequest represents the availability request body
type CreateAvailabilityRequest struct {
	LocationID int64  `json:"location_id" binding:"required"`
	DayOfWeek  string `json:"day_of_week" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
}

// CreateAvailability handles POST /api/v1/availability. The caller declares
// a weekly window at a location of a company they are employed at.
func (h *ScheduleHandler) CreateAvailability(c *gin.Context) {
	var req CreateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "location_id, day_of_week, start_time and end_time are required",
		})
		return
	}

	if !models.ValidDayOfWeek(req.DayOfWeek) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "day_of_week must be one of mon..sun",
		})
		return
	}

	location, err := h.companyRepository.GetLocationByID(req.LocationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if location == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "location not found",
		})
		return
	}

	userCtx := middleware.MustGetUserContext(c)
	employment, err := h.employmentRepository.GetActiveEmployment(userCtx.UserID, location.CompID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if employment == nil {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "not employed at this company",
		})
		return
	}

	availability, err := h.availabilityRepository.CreateAvailability(
		userCtx.UserID,
		req.LocationID,
		req.DayOfWeek,
		req.StartTime,
		req.EndTime,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, availability)
}

// ListAvailability handles GET /api/v1/availability (the caller's own windows)
func (h *ScheduleHandler) ListAvailability(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	availabilities, err := h.availabilityRepository.ListAvailabilityByUser(userCtx.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"availability": availabilities,
	})
}
