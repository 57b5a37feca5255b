package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/aslonhq/vendor-portal/internal/api/handler"
	"github.com/aslonhq/vendor-portal/internal/api/router"
	"github.com/aslonhq/vendor-portal/internal/auth"
	"github.com/aslonhq/vendor-portal/internal/config"
	"github.com/aslonhq/vendor-portal/internal/identity"
	"github.com/aslonhq/vendor-portal/internal/ledger"
	"github.com/aslonhq/vendor-portal/internal/lifecycle"
	"github.com/aslonhq/vendor-portal/internal/metrics"
	"github.com/aslonhq/vendor-portal/internal/portal"
	"github.com/aslonhq/vendor-portal/internal/receipt"
	"github.com/aslonhq/vendor-portal/migrations"
	"github.com/aslonhq/vendor-portal/shared/logger"
	"github.com/aslonhq/vendor-portal/shared/postgresql"
	"github.com/aslonhq/vendor-portal/shared/rabbitmq"
	"github.com/aslonhq/vendor-portal/shared/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateAPIConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("sessions_driver", cfg.Sessions.Driver),
	)

	// Initialize stores per the configured driver
	var (
		dbClient  *postgresql.Client
		jobs      ledger.Store
		directory identity.Directory
		portalDB  portal.Store
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dbClient, err = initPostgreSQL(&cfg.Database, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := dbClient.Migrate(migrations.FS); err != nil {
			dbClient.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		jobs = ledger.NewPostgresStore(dbClient)
		directory = identity.NewPostgresDirectory(dbClient)
		portalDB = portal.NewPostgresStore(dbClient)
		appLogger.Info("Database connection established")

	case config.DriverMemory:
		memDirectory := identity.NewMemoryDirectory()
		if err := memDirectory.Seed(identity.DemoUsers()); err != nil {
			return fmt.Errorf("failed to seed demo users: %w", err)
		}
		memPortal := portal.NewMemoryStore()
		if err := portal.SeedFixtures(memPortal); err != nil {
			return fmt.Errorf("failed to seed portal fixtures: %w", err)
		}
		jobs = ledger.NewMemoryStore()
		directory = memDirectory
		portalDB = memPortal
		appLogger.Info("In-memory stores seeded with demo data")
	}

	// Initialize session store
	var (
		redisClient *redis.Client
		sessions    auth.SessionStore
	)

	switch cfg.Sessions.Driver {
	case config.DriverRedis:
		redisClient, err = redis.NewClient(&redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		sessions = auth.NewRedisSessionStore(redisClient)
		appLogger.Info("Redis connection established")

	case config.DriverMemory:
		sessions = auth.NewMemorySessionStore()
	}

	// Initialize RabbitMQ client. The broker is optional for the API
	// service; without it payment events are dropped.
	var rabbitClient *rabbitmq.Client
	if cfg.RabbitMQ.Host != "" {
		rabbitClient, err = initRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		appLogger.Info("RabbitMQ connection established")
	} else {
		appLogger.Warn("No RabbitMQ configured, payment events will be dropped")
	}

	// Wire services
	m := metrics.New()

	sessionTTL := cfg.Auth.SessionTTL
	if sessionTTL == 0 {
		sessionTTL = auth.DefaultSessionTTL
	}
	authService := auth.NewService(directory, sessions, sessionTTL, appLogger.Logger)

	lifecycleCfg := &lifecycle.Config{
		Jobs:      jobs,
		Directory: directory,
		Composer:  receipt.NewComposer(appLogger.Logger, m.ReceiptQRFailures),
		Metrics:   m,
		Logger:    appLogger.Logger,
	}
	if rabbitClient != nil {
		lifecycleCfg.Publisher = rabbitClient
	}
	lifecycleService := lifecycle.NewService(lifecycleCfg)

	portalService := portal.NewService(portalDB, directory, jobs, appLogger.Logger)

	// Initialize router
	r := initRouter(cfg.App.Environment, &handler.Dependencies{
		Logger:    appLogger.Logger,
		Auth:      authService,
		Lifecycle: lifecycleService,
		Portal:    portalService,
	}, m)

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	appLogger.Info("Starting HTTP server",
		slog.String("address", addr),
		slog.Duration("read_timeout", cfg.Server.ReadTimeout),
		slog.Duration("write_timeout", cfg.Server.WriteTimeout),
	)

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start",
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}()

	appLogger.Info("API service is running",
		slog.String("address", addr),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)

	cleanup := func() {
		cancel()
		if dbClient != nil {
			dbClient.Close()
		}
		if redisClient != nil {
			redisClient.Close()
		}
		if rabbitClient != nil {
			rabbitClient.Close()
		}
	}
	defer cleanup()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initPostgreSQL initializes the PostgreSQL database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	dbConfig := &postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}

	return postgresql.NewClient(dbConfig, logger)
}

// initRabbitMQ initializes the RabbitMQ client
func initRabbitMQ(cfg *config.RabbitMQConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	rabbitConfig := &rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		QueueName:          cfg.Queue.Name,
		QueueDurable:       cfg.Queue.Durable,
		QueueAutoDelete:    cfg.Queue.AutoDelete,
		QueueExclusive:     cfg.Queue.Exclusive,
		RoutingKey:         cfg.RoutingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		ConnectionTimeout:  cfg.Connection.ConnectionTimeout,
		PublishRetries:     cfg.Publish.RetryAttempts,
		PublishRetryDelay:  cfg.Publish.RetryInterval,
		PublishBackoffMult: cfg.Publish.BackoffMultiplier,
	}

	return rabbitmq.NewClient(rabbitConfig, logger)
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(environment string, deps *handler.Dependencies, m *metrics.Metrics) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	return router.SetupRouter(deps, m)
}
