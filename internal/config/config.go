// Package config defines process configuration and its layered loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"github.com/okian/epochfmt/internal/domain/epoch"
)

// Config contains process configuration. With nothing set the program
// converts the built-in literal as milliseconds.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Timestamp is the raw value to convert.
	Timestamp int64 `koanf:"timestamp"`

	// Unit selects how Timestamp is read: "ms" or "s".
	Unit string `koanf:"unit"`

	// MetricsDump logs a snapshot of the conversion metrics at exit.
	MetricsDump bool `koanf:"metrics_dump"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "warn",
		Timestamp:   int64(epoch.DefaultTimestamp),
		Unit:        string(epoch.Milliseconds),
		MetricsDump: false,
	}
}

// TimestampUnit returns the parsed Unit.
func (c *Config) TimestampUnit() (epoch.Unit, error) {
	return epoch.ParseUnit(c.Unit)
}
