package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/clients/viacep"
	"github.com/tesseract-hub/crm-service/internal/config"
	"github.com/tesseract-hub/crm-service/internal/database"
	"github.com/tesseract-hub/crm-service/internal/events"
	"github.com/tesseract-hub/crm-service/internal/handlers"
	"github.com/tesseract-hub/crm-service/internal/health"
	"github.com/tesseract-hub/crm-service/internal/middleware"
	"github.com/tesseract-hub/crm-service/internal/repository"
	"github.com/tesseract-hub/crm-service/internal/scheduler"
	"github.com/tesseract-hub/crm-service/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})
	if cfg.IsProduction() {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Ensure the database exists before connecting to it
	if err := database.EnsureDatabase(cfg, logger); err != nil {
		logger.WithError(err).Warn("Failed to ensure database exists, connecting anyway")
	}

	db, err := database.Connect(cfg.Database, cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connection established")

	if err := database.Migrate(db, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize NATS client for interaction event streaming
	var natsClient *events.Client
	var publisher *events.Publisher
	if cfg.NATS.Enabled {
		natsClient, err = events.NewClient(events.Config{
			URL:           cfg.NATS.URL,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: time.Duration(cfg.NATS.ReconnectWait) * time.Second,
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize NATS, event streaming disabled")
		} else {
			publisher = events.NewPublisher(natsClient, logger)
			logger.Info("NATS client initialized for interaction event streaming")
		}
	} else {
		logger.Info("NATS disabled, interaction events will not be streamed")
	}
	defer func() {
		if natsClient != nil {
			natsClient.Close()
		}
	}()

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	opportunityRepo := repository.NewOpportunityRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)

	// Initialize services
	interactionService := services.NewInteractionService(interactionRepo, publisher, logger)
	customerService := services.NewCustomerService(customerRepo, interactionService, logger)
	opportunityService := services.NewOpportunityService(opportunityRepo, interactionService, logger)
	taskService := services.NewTaskService(taskRepo, interactionService, logger)
	reportService := services.NewReportService(customerRepo, opportunityRepo, taskRepo, logger)
	exportService := services.NewExportService(customerRepo, opportunityRepo, taskRepo, logger)

	// Initialize outbound clients
	viacepClient := viacep.NewClient(cfg.ViaCEP.BaseURL, time.Duration(cfg.ViaCEP.Timeout)*time.Second, logger)

	// Initialize handlers
	customerHandler := handlers.NewCustomerHandler(customerService, interactionService, logger)
	opportunityHandler := handlers.NewOpportunityHandler(opportunityService, logger)
	taskHandler := handlers.NewTaskHandler(taskService, logger)
	reportHandler := handlers.NewReportHandler(reportService, logger)
	exportHandler := handlers.NewExportHandler(exportService, logger)
	addressHandler := handlers.NewAddressHandler(viacepClient, logger)

	// Initialize health checker
	healthChecker := health.NewHealthChecker(db, cfg.App.Version)

	// Start overdue-task digest scheduler
	digestScheduler := scheduler.NewDigestScheduler(taskService, cfg.Digest, logger)
	if err := digestScheduler.Start(); err != nil {
		logger.WithError(err).Warn("Failed to start digest scheduler (continuing without digest)")
	}
	defer digestScheduler.Stop()

	// Setup router
	router := setupRouter(cfg, customerHandler, opportunityHandler, taskHandler,
		reportHandler, exportHandler, addressHandler, healthChecker)

	healthChecker.SetReady(true)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down CRM Service...")

		healthChecker.SetReady(false)
		digestScheduler.Stop()

		if natsClient != nil {
			natsClient.Close()
		}

		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Error closing database connection: %v", err)
			} else {
				log.Println("Database connection closed")
			}
		}

		log.Println("CRM service stopped")
		os.Exit(0)
	}()

	// Start server
	log.Printf("Starting CRM Service on %s", cfg.GetServerAddress())
	if err := router.Run(cfg.GetServerAddress()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures the Gin router with middleware and routes
func setupRouter(
	cfg *config.Config,
	customerHandler *handlers.CustomerHandler,
	opportunityHandler *handlers.OpportunityHandler,
	taskHandler *handlers.TaskHandler,
	reportHandler *handlers.ReportHandler,
	exportHandler *handlers.ExportHandler,
	addressHandler *handlers.AddressHandler,
	healthChecker *health.HealthChecker,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.SetupCORS())
	router.Use(health.MetricsMiddleware())

	// Health and metrics endpoints
	router.GET("/health", healthChecker.HealthHandler)
	router.GET("/livez", healthChecker.LivezHandler)
	router.GET("/readyz", healthChecker.ReadyzHandler)
	router.GET("/metrics", health.MetricsHandler())

	v1 := router.Group("/api/v1")
	{
		customers := v1.Group("/customers")
		{
			customers.POST("", customerHandler.Create)
			customers.GET("", customerHandler.List)
			customers.GET("/:id", customerHandler.Get)
			customers.PUT("/:id", customerHandler.Update)
			customers.DELETE("/:id", customerHandler.Delete)
			customers.GET("/:id/interactions", customerHandler.Interactions)
			customers.GET("/:id/opportunities", opportunityHandler.ByCustomer)
			customers.GET("/:id/tasks", taskHandler.ByCustomer)
		}

		opportunities := v1.Group("/opportunities")
		{
			opportunities.POST("", opportunityHandler.Create)
			opportunities.GET("", opportunityHandler.List)
			opportunities.GET("/metrics", opportunityHandler.Metrics)
			opportunities.GET("/:id", opportunityHandler.Get)
			opportunities.PUT("/:id", opportunityHandler.Update)
			opportunities.PATCH("/:id/stage", opportunityHandler.MoveStage)
			opportunities.DELETE("/:id", opportunityHandler.Delete)
		}

		tasks := v1.Group("/tasks")
		{
			tasks.POST("", taskHandler.Create)
			tasks.GET("", taskHandler.List)
			tasks.GET("/pending-today", taskHandler.PendingToday)
			tasks.GET("/overdue", taskHandler.Overdue)
			tasks.GET("/:id", taskHandler.Get)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.POST("/:id/complete", taskHandler.Complete)
			tasks.DELETE("/:id", taskHandler.Delete)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/dashboard", reportHandler.Dashboard)
			reports.GET("/sales-by-day", reportHandler.SalesByDay)
		}

		exports := v1.Group("/exports")
		{
			exports.GET("/customers", exportHandler.Customers)
			exports.GET("/opportunities", exportHandler.Opportunities)
			exports.GET("/tasks", exportHandler.Tasks)
		}

		v1.GET("/addresses/:cep", addressHandler.Lookup)
	}

	return router
}
