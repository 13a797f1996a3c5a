package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton for components that cannot take injected config
var globalConfig *Config

// Config holds all environment backed configuration for intake-api.
type Config struct {
	// HTTP Server
	HTTPPort    int `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int `env:"METRICS_PORT" envDefault:"9091"`

	// PostgreSQL
	DatabaseURL          string `env:"DATABASE_URL,notEmpty"`
	DBPostgresqlWriteDSN string `env:"DB_POSTGRESQL_WRITE_DSN"`
	DBPostgresqlRead1DSN string `env:"DB_POSTGRESQL_READ1_DSN"`

	// Symptom analyzer
	GeminiAPIKey           string                   `env:"GEMINI_API_KEY"`
	GeminiBaseURL          string                   `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	AnalyzerConfigsEnabled bool                     `env:"ANALYZER_CONFIGS" envDefault:"false"`
	AnalyzerConfigSet      string                   `env:"ANALYZER_CONFIG_SET" envDefault:"default"`
	AnalyzerConfigFile     string                   `env:"ANALYZER_CONFIGS_FILE"`
	AnalyzerTimeout        time.Duration            `env:"ANALYZER_TIMEOUT" envDefault:"30s"`
	AnalyzerBootstrap      *AnalyzerBootstrapConfig `env:"-"`

	// Retention
	RetentionSweepEnabled bool          `env:"RETENTION_SWEEP_ENABLED" envDefault:"true"`
	AnonymousMaxIdle      time.Duration `env:"ANONYMOUS_MAX_IDLE" envDefault:"720h"`

	// Observability / Logging
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string        `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"intake-api"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"medifind"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	// Internal
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.AnalyzerConfigSet = strings.TrimSpace(cfg.AnalyzerConfigSet)
	if cfg.AnalyzerConfigSet == "" {
		cfg.AnalyzerConfigSet = "default"
	}

	if cfg.AnalyzerConfigsEnabled {
		configFile := strings.TrimSpace(cfg.AnalyzerConfigFile)
		if configFile == "" {
			configFile = DefaultAnalyzerConfigFile
		}
		bootstrap, err := LoadAnalyzerBootstrapConfig(configFile)
		if err != nil {
			return nil, fmt.Errorf("load analyzer configs: %w", err)
		}
		cfg.AnalyzerBootstrap = bootstrap
		if len(bootstrap.ProvidersForSet(cfg.AnalyzerConfigSet)) == 0 {
			return nil, fmt.Errorf("analyzer config set %q is missing or empty in %s", cfg.AnalyzerConfigSet, configFile)
		}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()

	globalConfig = cfg

	return cfg, nil
}

// GetGlobal returns the global config instance.
// Deprecated: Use dependency injection with Load() instead.
func GetGlobal() *Config {
	return globalConfig
}

// AnalyzerBootstrapEntries returns the configured analyzer definitions for the active set.
func (c *Config) AnalyzerBootstrapEntries() []AnalyzerBootstrapEntry {
	if c == nil || c.AnalyzerBootstrap == nil {
		return nil
	}
	return c.AnalyzerBootstrap.ProvidersForSet(c.AnalyzerConfigSet)
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}
