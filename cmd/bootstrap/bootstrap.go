package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-backend/config"
	deliveryHttp "clinic-backend/internal/delivery/http"
	"clinic-backend/internal/delivery/http/handler"
	"clinic-backend/internal/delivery/http/middleware"
	"clinic-backend/internal/infrastructure/cache"
	"clinic-backend/internal/infrastructure/database"
	"clinic-backend/internal/repository"
	"clinic-backend/internal/service"
	"clinic-backend/internal/usecase"
	"clinic-backend/internal/wizard"
	"clinic-backend/pkg/jwt"
	"clinic-backend/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Apply schema migrations
	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server, err := initializeServer(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	// All dates and slot boundaries are interpreted in the clinic's timezone.
	loc, err := time.LoadLocation(cfg.DB.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.DB.TimeZone, err)
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository()
	overrideRepo := repository.NewAvailabilityOverrideRepository()
	defaultScheduleRepo := repository.NewDefaultScheduleRepository()
	paymentOrderRepo := repository.NewPaymentOrderRepository()
	reviewRepo := repository.NewReviewRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	doctorUserRepo := repository.NewDoctorUserRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	reservation := service.NewSlotReservationService(redisClient, log)
	gateway := service.NewRazorpayGateway(cfg.Razorpay, log)
	notifier := service.NewTwilioNotifier(cfg.Twilio, cfg.Clinic, log)
	renderer := service.NewPDFPrescriptionRenderer()
	flowStore := wizard.NewRedisFlowStore(redisClient)

	// Initialize usecases
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, overrideRepo, defaultScheduleRepo, appointmentRepo, auditService)
	bookingUsecase := usecase.NewBookingUsecase(db, log, loc, appointmentRepo, availabilityUsecase, reservation, notifier, auditService)
	paymentUsecase := usecase.NewPaymentUsecase(db, log, loc, cfg.Clinic, paymentOrderRepo, appointmentRepo, availabilityUsecase, reservation, gateway, notifier, auditService)
	flowUsecase := usecase.NewBookingFlowUsecase(log, loc, cfg.Clinic, flowStore, availabilityUsecase, bookingUsecase, paymentUsecase)
	reviewUsecase := usecase.NewReviewUsecase(db, log, reviewRepo, auditService)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, log, cfg.Clinic, prescriptionRepo, renderer, auditService)
	authUsecase := usecase.NewAuthUsecase(db, log, doctorUserRepo, jwtService, redisClient, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, availabilityUsecase, cfg.Clinic, customValidator)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUsecase, customValidator)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase, customValidator)
	flowHandler := handler.NewFlowHandler(flowUsecase, customValidator)
	reviewHandler := handler.NewReviewHandler(reviewUsecase, customValidator)
	prescriptionHandler := handler.NewPrescriptionHandler(prescriptionUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	adminKeyMiddleware := middleware.NewAdminKeyMiddleware(cfg.Admin.Key)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		appointmentHandler,
		availabilityHandler,
		paymentHandler,
		flowHandler,
		reviewHandler,
		prescriptionHandler,
		auditLogHandler,
		authMiddleware,
		adminKeyMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
