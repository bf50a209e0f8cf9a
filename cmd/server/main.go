package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/workscheduler/scheduling-backend/internal/config"
	"github.com/workscheduler/scheduling-backend/internal/database"
	"github.com/workscheduler/scheduling-backend/internal/handlers"
	"github.com/workscheduler/scheduling-backend/internal/middleware"
	"github.com/workscheduler/scheduling-backend/internal/services"
	"github.com/workscheduler/scheduling-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Work Scheduling Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	companyRepository := database.NewCompanyRepository(db)
	employmentRepository := database.NewEmploymentRepository(db)
	registrationRepository := database.NewRegistrationRepository(db)
	inviteRepository := database.NewInviteRepository(db)
	shiftRepository := database.NewShiftRepository(db)
	availabilityRepository := database.NewAvailabilityRepository(db)
	documentRepository := database.NewDocumentRepository(db)
	refreshTokenRepository := database.NewRefreshTokenRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	authService := services.NewAuthService(userRepository, cfg.Security.BcryptCost)
	registrationService := services.NewRegistrationService(authService, registrationRepository)
	onboardingService := services.NewOnboardingService(
		authService,
		jwtService,
		inviteRepository,
		companyRepository,
		userRepository,
		employmentRepository,
	)
	auditService := services.NewAuditService(db)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(
		jwtService,
		authService,
		registrationService,
		auditService,
		userRepository,
		refreshTokenRepository,
	)
	onboardingHandler := handlers.NewOnboardingHandler(
		onboardingService,
		auditService,
		employmentRepository,
	)
	scheduleHandler := handlers.NewScheduleHandler(
		shiftRepository,
		availabilityRepository,
		companyRepository,
		employmentRepository,
		userRepository,
	)
	documentHandler := handlers.NewDocumentHandler(
		documentRepository,
		employmentRepository,
	)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)

			protected := auth.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.GET("/me", authHandler.Me)
			}
		}

		// Onboarding routes. Validation and acceptance are public: the
		// invitee has no session yet, the signed token is the credential.
		onboarding := v1.Group("/onboarding")
		{
			onboarding.GET("/validate", onboardingHandler.Prevalidate)
			onboarding.POST("/accept", onboardingHandler.Accept)

			inviteProtected := onboarding.Group("")
			inviteProtected.Use(middleware.AuthMiddleware(jwtService))
			{
				inviteProtected.POST("/invite", onboardingHandler.CreateInvite)
			}
		}

		// Schedule routes (all protected)
		locations := v1.Group("/locations")
		locations.Use(middleware.AuthMiddleware(jwtService))
		{
			locations.POST("/:id/shifts", scheduleHandler.CreateShift)
			locations.GET("/:id/shifts", scheduleHandler.ListShifts)
		}

		shifts := v1.Group("/shifts")
		shifts.Use(middleware.AuthMiddleware(jwtService))
		{
			shifts.POST("/:id/assignments", scheduleHandler.AssignShift)
		}

		availability := v1.Group("/availability")
		availability.Use(middleware.AuthMiddleware(jwtService))
		{
			availability.POST("", scheduleHandler.CreateAvailability)
			availability.GET("", scheduleHandler.ListAvailability)
		}

		// Document routes (all protected)
		documents := v1.Group("/documents")
		documents.Use(middleware.AuthMiddleware(jwtService))
		{
			documents.POST("", documentHandler.CreateDocument)
			documents.GET("", documentHandler.ListDocuments)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
