// Package config loads SizePipe configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Fetch   FetchConfig
	Product ImageRule
	Chart   ImageRule
	Logging LogConfig
}

// FetchConfig holds HTTP client configuration.
type FetchConfig struct {
	Timeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"15s"`
	UserAgent string        `envconfig:"FETCH_USER_AGENT" default:""`
}

// ImageRule holds validation bounds for one image role.
type ImageRule struct {
	MinBytes       int     `envconfig:"MIN_BYTES" default:"5000"`
	MaxBytes       int     `envconfig:"MAX_BYTES" default:"15000000"`
	MinWidth       int     `envconfig:"MIN_WIDTH" default:"300"`
	MinHeight      int     `envconfig:"MIN_HEIGHT" default:"300"`
	MaxAspectRatio float64 `envconfig:"MAX_ASPECT" default:"0"`
	MaxAttempts    int     `envconfig:"MAX_ATTEMPTS" default:"8"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from SIZEPIPE_-prefixed environment variables.
// Image rules use role sub-prefixes, e.g. SIZEPIPE_PRODUCT_MIN_WIDTH and
// SIZEPIPE_CHART_MAX_ASPECT.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("SIZEPIPE", &cfg.Fetch); err != nil {
		return nil, fmt.Errorf("loading fetch config: %w", err)
	}
	if err := envconfig.Process("SIZEPIPE_PRODUCT", &cfg.Product); err != nil {
		return nil, fmt.Errorf("loading product image config: %w", err)
	}
	if err := envconfig.Process("SIZEPIPE_CHART", &cfg.Chart); err != nil {
		return nil, fmt.Errorf("loading chart image config: %w", err)
	}
	if err := envconfig.Process("SIZEPIPE", &cfg.Logging); err != nil {
		return nil, fmt.Errorf("loading log config: %w", err)
	}
	// Size charts are often tall scans, so leave their aspect unbounded
	// unless set; product shots get a sane ceiling.
	if cfg.Product.MaxAspectRatio == 0 {
		cfg.Product.MaxAspectRatio = 3.5
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from the environment, falling back
// to defaults if processing fails.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{Timeout: 15 * time.Second},
		Product: ImageRule{
			MinBytes:       5000,
			MaxBytes:       15000000,
			MinWidth:       300,
			MinHeight:      300,
			MaxAspectRatio: 3.5,
			MaxAttempts:    8,
		},
		Chart: ImageRule{
			MinBytes:    5000,
			MaxBytes:    15000000,
			MinWidth:    300,
			MinHeight:   300,
			MaxAttempts: 8,
		},
		Logging: LogConfig{Level: "info"},
	}
}
