// ABOUTME: Environment-backed configuration for the tokenhouse CLI
// ABOUTME: Hardening knobs are explicit here, never ambient globals

package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config is the full runtime configuration. Hardening defaults are the
// safe ones: isolated failure mode, raw HTML off.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	// Strict re-raises collector failures instead of isolating them.
	// Test/dev only.
	Strict bool `env:"STRICT_MODE" envDefault:"false"`

	// CollectRawHTML opts in to sanitized raw-markup passthrough.
	CollectRawHTML bool `env:"COLLECT_RAW_HTML" envDefault:"false"`

	// Per-collector capacity caps; 0 means the built-in default.
	LinkCap    int `env:"LINK_CAP" envDefault:"0"`
	ImageCap   int `env:"IMAGE_CAP" envDefault:"0"`
	HeadingCap int `env:"HEADING_CAP" envDefault:"0"`
	CodeCap    int `env:"CODE_CAP" envDefault:"0"`
	TableCap   int `env:"TABLE_CAP" envDefault:"0"`
	HTMLCap    int `env:"HTML_CAP" envDefault:"0"`

	// MetricsPort serves /metrics, /health, and pprof when > 0.
	MetricsPort int `env:"METRICS_PORT" envDefault:"0"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
