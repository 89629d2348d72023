package config

import (
	"fmt"
	"slices"
	"time"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "console"}

	// defaultLevelByEnv applies when logging.level is left empty.
	defaultLevelByEnv = map[string]string{
		"production":  "info",
		"development": "debug",
		"local":       "debug",
	}
)

// ObservabilityConfig covers logs, New Relic and the /status checks.
// ServiceName and Environment are overwritten by LoadConfig.
type ObservabilityConfig struct {
	ServiceName string `koanf:"service_name"`
	Environment string `koanf:"environment"`

	Logging      LoggingConfig      `koanf:"logging"`
	NewRelic     NewRelicConfig     `koanf:"new_relic"`
	HealthChecks HealthChecksConfig `koanf:"health_checks"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`

	// SlowQueryThreshold takes durations such as "100ms". Zero disables it.
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// NewRelicConfig is ignored entirely while LicenseKey is empty.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
	DebugLogging              bool   `koanf:"debug_logging"`
}

// HealthChecksConfig selects which dependencies GET /status checks ("store",
// "redis") and how long each check may take.
type HealthChecksConfig struct {
	Enabled bool          `koanf:"enabled"`
	Timeout time.Duration `koanf:"timeout"`
	Checks  []string      `koanf:"checks"`
}

func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: "cats",
		Environment: "development",
		Logging: LoggingConfig{
			Level:              "info",
			Format:             "json",
			SlowQueryThreshold: 100 * time.Millisecond,
		},
		NewRelic: NewRelicConfig{
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
		},
		HealthChecks: HealthChecksConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
			Checks:  []string{"store", "redis"},
		},
	}
}

// Validate reports the first setting that cannot be used. Empty level and
// format are allowed and resolved later.
func (c *ObservabilityConfig) Validate() error {
	switch {
	case c.ServiceName == "":
		return fmt.Errorf("service_name is required")
	case c.Logging.Level != "" && !slices.Contains(logLevels, c.Logging.Level):
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	case c.Logging.Format != "" && !slices.Contains(logFormats, c.Logging.Format):
		return fmt.Errorf("invalid logging format: %s (must be json or console)", c.Logging.Format)
	case c.Logging.SlowQueryThreshold < 0:
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	case c.HealthChecks.Enabled && c.HealthChecks.Timeout < time.Second:
		return fmt.Errorf("health_checks timeout must be at least 1s")
	}
	return nil
}

// GetLogLevel is the configured level, or the environment's default when
// none is set.
func (c *ObservabilityConfig) GetLogLevel() string {
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	return defaultLevelByEnv[c.Environment]
}

func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}

func (c *ObservabilityConfig) NewRelicEnabled() bool {
	return c.NewRelic.LicenseKey != ""
}

// HasCheck is false for every name while checks are disabled.
func (c *ObservabilityConfig) HasCheck(name string) bool {
	return c.HealthChecks.Enabled && slices.Contains(c.HealthChecks.Checks, name)
}
