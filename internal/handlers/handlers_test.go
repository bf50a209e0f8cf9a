package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/workscheduler/scheduling-backend/internal/database"
	"github.com/workscheduler/scheduling-backend/internal/middleware"
	"github.com/workscheduler/scheduling-backend/internal/services"
	"github.com/workscheduler/scheduling-backend/pkg/jwt"
)

const testBcryptCost = 4

// testEnv wires the full handler stack over a sqlmock connection, mirroring
// the route layout of the server entrypoint.
type testEnv struct {
	router     *gin.Engine
	mock       sqlmock.Sqlmock
	jwtService *jwt.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rawDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })

	db := &database.PostgresDB{DB: sqlx.NewDb(rawDB, "sqlmock")}

	userRepository := database.NewUserRepository(db)
	companyRepository := database.NewCompanyRepository(db)
	employmentRepository := database.NewEmploymentRepository(db)
	registrationRepository := database.NewRegistrationRepository(db)
	inviteRepository := database.NewInviteRepository(db)
	shiftRepository := database.NewShiftRepository(db)
	availabilityRepository := database.NewAvailabilityRepository(db)
	documentRepository := database.NewDocumentRepository(db)
	refreshTokenRepository := database.NewRefreshTokenRepository(db)

	jwtService := jwt.NewService("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
	authService := services.NewAuthService(userRepository, testBcryptCost)
	registrationService := services.NewRegistrationService(authService, registrationRepository)
	onboardingService := services.NewOnboardingService(
		authService, jwtService, inviteRepository, companyRepository, userRepository, employmentRepository,
	)
	auditService := services.NewAuditService(db)

	authHandler := NewAuthHandler(
		jwtService, authService, registrationService, auditService, userRepository, refreshTokenRepository,
	)
	onboardingHandler := NewOnboardingHandler(onboardingService, auditService, employmentRepository)
	scheduleHandler := NewScheduleHandler(
		shiftRepository, availabilityRepository, companyRepository, employmentRepository, userRepository,
	)
	documentHandler := NewDocumentHandler(documentRepository, employmentRepository)

	router := gin.New()
	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", middleware.AuthMiddleware(jwtService), authHandler.Me)

	onboarding := v1.Group("/onboarding")
	onboarding.GET("/validate", onboardingHandler.Prevalidate)
	onboarding.POST("/accept", onboardingHandler.Accept)
	onboarding.POST("/invite", middleware.AuthMiddleware(jwtService), onboardingHandler.CreateInvite)

	locations := v1.Group("/locations", middleware.AuthMiddleware(jwtService))
	locations.POST("/:id/shifts", scheduleHandler.CreateShift)
	locations.GET("/:id/shifts", scheduleHandler.ListShifts)

	shifts := v1.Group("/shifts", middleware.AuthMiddleware(jwtService))
	shifts.POST("/:id/assignments", scheduleHandler.AssignShift)

	availability := v1.Group("/availability", middleware.AuthMiddleware(jwtService))
	availability.POST("", scheduleHandler.CreateAvailability)
	availability.GET("", scheduleHandler.ListAvailability)

	documents := v1.Group("/documents", middleware.AuthMiddleware(jwtService))
	documents.POST("", documentHandler.CreateDocument)
	documents.GET("", documentHandler.ListDocuments)

	return &testEnv{
		router:     router,
		mock:       mock,
		jwtService: jwtService,
	}
}

// accessToken mints a session token for the test user
func (e *testEnv) accessToken(t *testing.T, userID int64, email string) string {
	t.Helper()
	token, err := e.jwtService.GenerateAccessToken(userID, email)
	require.NoError(t, err)
	return token
}

// doJSON performs a request with an optional JSON body and bearer token
func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var (
	userColumns         = []string{"user_id", "username", "user_email", "user_password", "is_verified", "display_name"}
	companyColumns      = []string{"comp_id", "comp_name", "comp_email", "comp_address", "is_verified"}
	locationColumns     = []string{"loc_id", "comp_id", "loc_name", "loc_address"}
	employmentColumns   = []string{"emp_id", "user_id", "comp_id", "location_id", "position", "status", "start_date", "end_date"}
	refreshTokenColumns = []string{
		"id", "user_id", "token_hash", "device_type", "ip_address", "user_agent",
		"created_at", "expires_at", "last_used_at", "revoked", "revoked_at",
	}
)

func newUniqueViolation() *pq.Error {
	return &pq.Error{Code: "23505"}
}

func expectAuditInsert(mock sqlmock.Sqlmock) {
	mock.ExpectExec(`INSERT INTO audit_logs`).
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
}
