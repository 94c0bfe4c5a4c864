// Package setup bootstraps the shared dependencies of every command.
package setup

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/rueidis"
	"github.com/robalyx/squadpledge/internal/database"
	"github.com/robalyx/squadpledge/internal/database/memory"
	"github.com/robalyx/squadpledge/internal/redis"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/robalyx/squadpledge/internal/setup/config"
	"github.com/robalyx/squadpledge/internal/setup/telemetry"
	"go.uber.org/zap"
)

// Options select how the App is assembled.
type Options struct {
	// LogDir is the base directory of log sessions.
	LogDir string
	// WorkerID distinguishes worker processes sharing a log directory.
	WorkerID string
	// InMemory replaces PostgreSQL with the in-process store.
	InMemory bool
	// AutoMigrate applies pending migrations on connect.
	AutoMigrate bool
	// WithRedis connects the worker status and lock clients.
	WithRedis bool
}

// App bundles all core dependencies and services needed by the application.
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	DBLogger     *zap.Logger
	Store        database.Store
	Engine       *service.Engine
	RedisManager *redis.Manager
	StatusClient rueidis.Client
	LockClient   rueidis.Client
	LogManager   *telemetry.Manager
}

// InitializeApp loads the configuration and brings up logging, storage and the engine.
func InitializeApp(ctx context.Context, serviceType telemetry.ServiceType, opts Options) (*App, error) {
	cfg, configDir, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(serviceType, opts.LogDir, &cfg.Common.Debug, opts.WorkerID)
	logManager.StartTracing()

	logger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded configuration", zap.String("dir", configDir), zap.String("service", serviceType.String()))

	rules, err := service.NewRules(&cfg.Common.Engine)
	if err != nil {
		return nil, err
	}

	var store database.Store
	if opts.InMemory {
		logger.Warn("Using in-memory store, state is lost on exit")
		store = memory.New(dbLogger)
	} else {
		store, err = database.NewConnection(ctx, &cfg.Common.PostgreSQL, dbLogger.Named("database"), opts.AutoMigrate)
		if err != nil {
			return nil, err
		}
	}

	engine := service.New(store, rules, logger)

	if err := engine.Access().BootstrapAdmins(ctx, cfg.Common.Access.Admins); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to bootstrap admins: %w", err)
	}

	app := &App{
		Config:     cfg,
		Logger:     logger,
		DBLogger:   dbLogger,
		Store:      store,
		Engine:     engine,
		LogManager: logManager,
	}

	if opts.WithRedis {
		// Redis manager provides connection pools for the worker subsystems
		app.RedisManager = redis.NewManager(&cfg.Common.Redis, logger)

		app.StatusClient, err = app.RedisManager.GetClient(redis.WorkerStatusDBIndex)
		if err != nil {
			app.Cleanup(ctx)
			return nil, err
		}

		app.LockClient, err = app.RedisManager.GetClient(redis.LockDBIndex)
		if err != nil {
			app.Cleanup(ctx)
			return nil, err
		}
	}

	return app, nil
}

// Cleanup shuts every component down in reverse initialization order. Failures are
// logged so every component gets its cleanup attempt.
func (s *App) Cleanup(ctx context.Context) {
	if err := s.Store.Close(); err != nil {
		log.Printf("Failed to close store: %v", err)
	}

	// Close Redis connections after the store as sweeps may still release locks
	if s.RedisManager != nil {
		s.RedisManager.Close()
	}

	_ = s.Logger.Sync()
	_ = s.DBLogger.Sync()

	s.LogManager.Stop(ctx)
}
