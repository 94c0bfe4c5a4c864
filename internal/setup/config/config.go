package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robalyx/squadpledge/internal/database/types/enum"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrInvalidEngineConfig   = errors.New("invalid engine configuration")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v0.1.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentAPIVersion    = 1
	CurrentWorkerVersion = 1
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig
	API    APIConfig
	Worker WorkerConfig
}

// CommonConfig contains configuration shared between the API server and the worker.
type CommonConfig struct {
	// Version of the common config.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	Retry      Retry      `koanf:"retry"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
	Access     Access     `koanf:"access"`
	Engine     Engine     `koanf:"engine"`
}

// APIConfig contains REST server specific configuration.
type APIConfig struct {
	// Version of the api config.
	Version int `koanf:"version"`
	// Server contains listener settings.
	Server Server `koanf:"server"`
	// RateLimit contains per-caller request limits.
	RateLimit RateLimit `koanf:"rate_limit"`
}

// WorkerConfig contains worker specific configuration.
type WorkerConfig struct {
	// Version of the worker config.
	Version int `koanf:"version"`
	// Startup delay in milliseconds.
	StartupDelay int `koanf:"startup_delay"`
	// Sweep contains background sweep settings.
	Sweep Sweep `koanf:"sweep"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log sessions to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
	// Forward error logs to OpenTelemetry spans.
	EnableTracing bool `koanf:"enable_tracing"`
	// Uptrace DSN receiving traces. Empty disables the exporter.
	UptraceDSN string `koanf:"uptrace_dsn"`
}

// Retry contains database retry configuration.
type Retry struct {
	// Maximum retry attempts.
	MaxRetries uint64 `koanf:"max_retries"`
	// Initial retry delay in milliseconds.
	Delay int `koanf:"delay"`
	// Maximum retry delay in milliseconds.
	MaxDelay int `koanf:"max_delay"`
	// Maximum total time spent retrying in milliseconds.
	MaxElapsed int `koanf:"max_elapsed"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
	// Queries slower than this many milliseconds are logged at warn level.
	SlowQueryThreshold int `koanf:"slow_query_threshold"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
	// Disable client side caching. Required for servers without RESP3 tracking.
	DisableCache bool `koanf:"disable_cache"`
}

// Access contains role bootstrap configuration.
type Access struct {
	// Identities granted the admin role at startup.
	Admins []string `koanf:"admins"`
}

// Engine contains the fixed workflow rules.
type Engine struct {
	// How projects leave pledging: "explicit" or "threshold".
	ActivationMode string `koanf:"activation_mode"`
	// Fraction of capacity that must be confirmed before automatic activation.
	ActivationThreshold float64 `koanf:"activation_threshold"`
	// Hours before a pending pledge expires.
	PledgeExpiryHours int `koanf:"pledge_expiry_hours"`
	// Hours a completed task stays open to challenges.
	AuditWindowHours int `koanf:"audit_window_hours"`
	// Hours after completion during which peer ratings are accepted.
	RatingWindowHours int `koanf:"rating_window_hours"`
	// Total challenge vote weight that rejects a challenged task.
	ChallengeQuorum int `koanf:"challenge_quorum"`
}

// Server contains HTTP listener configuration.
type Server struct {
	// Listen host.
	Host string `koanf:"host"`
	// Listen port.
	Port int `koanf:"port"`
	// Read timeout in milliseconds.
	ReadTimeout int `koanf:"read_timeout"`
	// Write timeout in milliseconds.
	WriteTimeout int `koanf:"write_timeout"`
	// Graceful shutdown timeout in milliseconds.
	ShutdownTimeout int `koanf:"shutdown_timeout"`
}

// RateLimit contains per-caller rate limiting configuration.
type RateLimit struct {
	// Sustained requests per second per caller.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	// Burst size per caller.
	BurstSize int `koanf:"burst_size"`
	// Violations before a caller is blocked.
	StrikeLimit int `koanf:"strike_limit"`
	// Block duration in seconds.
	BlockDuration int `koanf:"block_duration"`
}

// Sweep contains background sweep configuration.
type Sweep struct {
	// Interval between sweeps in seconds.
	Interval int `koanf:"interval"`
	// Maximum projects swept concurrently.
	Concurrency int `koanf:"concurrency"`
	// Seconds a worker holds the sweep lock before it lapses.
	LockTTL int `koanf:"lock_ttl"`
}

// DefaultEngine returns the engine rules used when nothing is configured.
func DefaultEngine() Engine {
	return Engine{
		ActivationMode:      enum.ActivationModeExplicit.String(),
		ActivationThreshold: 0.8,
		PledgeExpiryHours:   14 * 24,
		AuditWindowHours:    24,
		RatingWindowHours:   7 * 24,
		ChallengeQuorum:     3,
	}
}

// Mode parses the configured activation mode.
func (e *Engine) Mode() (enum.ActivationMode, error) {
	if e.ActivationMode == "" {
		return enum.ActivationModeExplicit, nil
	}

	mode, err := enum.ActivationModeString(e.ActivationMode)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidEngineConfig, err)
	}

	return mode, nil
}

// PledgeExpiry returns how long a pending pledge may stay unconfirmed.
func (e *Engine) PledgeExpiry() time.Duration {
	return time.Duration(e.PledgeExpiryHours) * time.Hour
}

// AuditWindow returns how long a completed task may be challenged.
func (e *Engine) AuditWindow() time.Duration {
	return time.Duration(e.AuditWindowHours) * time.Hour
}

// RatingWindow returns how long after completion peer ratings are accepted.
func (e *Engine) RatingWindow() time.Duration {
	return time.Duration(e.RatingWindowHours) * time.Hour
}

// Validate checks that the engine rules are usable.
func (e *Engine) Validate() error {
	if _, err := e.Mode(); err != nil {
		return err
	}

	switch {
	case e.ActivationThreshold <= 0 || e.ActivationThreshold > 1:
		return fmt.Errorf("%w: activation_threshold must be in (0, 1]", ErrInvalidEngineConfig)
	case e.PledgeExpiryHours <= 0:
		return fmt.Errorf("%w: pledge_expiry_hours must be positive", ErrInvalidEngineConfig)
	case e.AuditWindowHours <= 0:
		return fmt.Errorf("%w: audit_window_hours must be positive", ErrInvalidEngineConfig)
	case e.RatingWindowHours <= 0:
		return fmt.Errorf("%w: rating_window_hours must be positive", ErrInvalidEngineConfig)
	case e.ChallengeQuorum <= 0:
		return fmt.Errorf("%w: challenge_quorum must be positive", ErrInvalidEngineConfig)
	}

	return nil
}

// ConfigPaths returns the directories searched for config files, in order.
func ConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return []string{
		".squadpledge",
		homeDir + "/.squadpledge/config",
		"/etc/squadpledge/config",
		"/app/config",
		"config",
		".",
	}, nil
}

// LoadConfig loads the configuration from the first config path containing each file.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	configPaths, err := ConfigPaths()
	if err != nil {
		return nil, "", err
	}

	return LoadConfigFrom(configPaths)
}

// LoadConfigFrom loads the configuration by searching the given directories.
func LoadConfigFrom(configPaths []string) (*Config, string, error) {
	config := Config{
		Common: CommonConfig{Engine: DefaultEngine()},
	}

	var usedConfigPath string

	targets := []struct {
		name string
		dest any
	}{
		{"common", &config.Common},
		{"api", &config.API},
		{"worker", &config.Worker},
	}

	for _, target := range targets {
		path, err := loadFile(configPaths, target.name, target.dest)
		if err != nil {
			return nil, "", err
		}

		if usedConfigPath == "" {
			usedConfigPath = path
		}
	}

	// Check versions for each config file
	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("api", config.API.Version, CurrentAPIVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("worker", config.Worker.Version, CurrentWorkerVersion); err != nil {
		return nil, "", err
	}

	if err := config.Common.Engine.Validate(); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// loadFile unmarshals the first <name>.toml found in configPaths into dest.
func loadFile(configPaths []string, name string, dest any) (string, error) {
	for _, path := range configPaths {
		k := koanf.New(".")

		configPath := fmt.Sprintf("%s/%s.toml", path, name)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			continue
		}

		if err := k.Unmarshal("", dest); err != nil {
			return "", fmt.Errorf("error unmarshaling %s.toml: %w", name, err)
		}

		return path, nil
	}

	return "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, name)
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/robalyx/squadpledge/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
