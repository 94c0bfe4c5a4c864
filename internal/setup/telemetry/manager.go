package telemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/squadpledge/internal/setup/config"
	"github.com/robalyx/squadpledge/internal/setup/telemetry/logger"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceType represents the type of service being initialized.
type ServiceType int

const (
	ServiceAPI ServiceType = iota
	ServiceWorker
	ServiceCLI
)

// String returns the component name of the service.
func (s ServiceType) String() string {
	switch s {
	case ServiceAPI:
		return "api"
	case ServiceWorker:
		return "worker"
	case ServiceCLI:
		return "cli"
	default:
		return "unknown"
	}
}

// sessionLayout names log session directories.
const sessionLayout = "2006-01-02_15-04-05"

// Manager handles the creation and management of log files and directories.
// Every run writes into its own timestamped session directory.
type Manager struct {
	instanceID        string
	componentName     string
	currentSessionDir string
	logDir            string
	level             string
	maxLogsToKeep     int
	maxLogLines       int
	enableTracing     bool
	uptraceDSN        string
	closers           []*logger.LogRotator
}

// NewManager creates a new Manager instance. workerID distinguishes several workers
// writing into the same log directory.
func NewManager(serviceType ServiceType, logDir string, debugCfg *config.Debug, workerID string) *Manager {
	componentName := serviceType.String()
	if workerID != "" {
		componentName = fmt.Sprintf("%s_%s", componentName, workerID)
	}

	return &Manager{
		instanceID:    uuid.New().String(),
		componentName: componentName,
		logDir:        logDir,
		level:         debugCfg.LogLevel,
		maxLogsToKeep: max(debugCfg.MaxLogsToKeep, 1),
		maxLogLines:   max(debugCfg.MaxLogLines, 1),
		enableTracing: debugCfg.EnableTracing,
		uptraceDSN:    debugCfg.UptraceDSN,
	}
}

// StartTracing configures the Uptrace exporter when a DSN is set.
func (lm *Manager) StartTracing() {
	if lm.uptraceDSN == "" {
		return
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(lm.uptraceDSN),
		uptrace.WithServiceName("squadpledge-"+lm.componentName),
		uptrace.WithServiceVersion(config.RepositoryVersion),
		uptrace.WithDeploymentEnvironment(lm.instanceID),
	)
}

// Stop flushes traces and closes every log file.
func (lm *Manager) Stop(ctx context.Context) {
	if lm.uptraceDSN != "" {
		_ = uptrace.Shutdown(ctx)
	}

	for _, rotator := range lm.closers {
		_ = rotator.Close()
	}
	lm.closers = nil
}

// GetLoggers initializes the main and database loggers.
func (lm *Manager) GetLoggers() (*zap.Logger, *zap.Logger, error) {
	if err := lm.setupLogDirectories(); err != nil {
		return nil, nil, err
	}

	mainLogger, err := lm.initLogger(filepath.Join(lm.currentSessionDir, "main.log"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize main logger: %w", err)
	}

	dbLogger, err := lm.initLogger(filepath.Join(lm.currentSessionDir, "database.log"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database logger: %w", err)
	}

	return mainLogger.With(zap.String("instance", lm.instanceID)), dbLogger, nil
}

// GetWorkerLogger creates a logger for a background worker in the session directory.
func (lm *Manager) GetWorkerLogger(name string) *zap.Logger {
	logger, err := lm.initLogger(filepath.Join(lm.getOrCreateSessionDir(), name+".log"))
	if err != nil {
		return zap.NewNop()
	}

	return logger
}

// GetCurrentSessionDir returns the current session directory.
func (lm *Manager) GetCurrentSessionDir() string {
	return lm.getOrCreateSessionDir()
}

// GetInstanceID returns the unique identifier of this run.
func (lm *Manager) GetInstanceID() string {
	return lm.instanceID
}

// setupLogDirectories ensures the base directory exists, drops old sessions and
// starts a new one.
func (lm *Manager) setupLogDirectories() error {
	if err := os.MkdirAll(lm.logDir, 0o750); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	if err := lm.rotateLogSessions(); err != nil {
		return fmt.Errorf("failed to rotate log sessions: %w", err)
	}

	lm.currentSessionDir = filepath.Join(lm.logDir, time.Now().Format(sessionLayout)+"_"+lm.componentName)
	if err := os.MkdirAll(lm.currentSessionDir, 0o750); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	return nil
}

// getOrCreateSessionDir returns the current session directory, falling back to the
// base directory when one cannot be created.
func (lm *Manager) getOrCreateSessionDir() string {
	if lm.currentSessionDir != "" {
		return lm.currentSessionDir
	}

	sessionDir := filepath.Join(lm.logDir, time.Now().Format(sessionLayout)+"_"+lm.componentName)
	if err := os.MkdirAll(sessionDir, 0o750); err != nil {
		return lm.logDir
	}
	lm.currentSessionDir = sessionDir

	return sessionDir
}

// initLogger creates a zap logger writing to path, plus the tracing core when enabled.
func (lm *Manager) initLogger(path string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(lm.level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	rotator, err := logger.NewLogRotator(path, lm.maxLogLines)
	if err != nil {
		return nil, err
	}
	lm.closers = append(lm.closers, rotator)

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(rotator), zapLevel),
	}

	if lm.enableTracing {
		cores = append(cores, NewCore(zapLevel))
	}

	return zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

// rotateLogSessions keeps only the newest maxLogsToKeep-1 sessions so the new one fits.
func (lm *Manager) rotateLogSessions() error {
	sessions, err := filepath.Glob(filepath.Join(lm.logDir, "*"))
	if err != nil {
		return err
	}

	if len(sessions) < lm.maxLogsToKeep {
		return nil
	}

	// Session names start with their timestamp
	slices.Sort(sessions)

	for _, session := range sessions[:len(sessions)-lm.maxLogsToKeep+1] {
		if err := os.RemoveAll(session); err != nil {
			return err
		}
	}

	return nil
}
