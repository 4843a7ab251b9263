package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "EPOCHFMT_"
	envConfig  = envPrefix + "CONFIG"
	koanfDelim = "."
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if EPOCHFMT_CONFIG is set
//  3. env (prefix EPOCHFMT_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(koanfDelim)

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// EPOCHFMT_LOG_LEVEL -> log_level. Underscores are kept to match the
	// flat koanf tags; EPOCHFMT_CONFIG itself is skipped.
	envProvider := env.Provider(envPrefix, koanfDelim, func(s string) string {
		if s == envConfig {
			return ""
		}
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks fields that cannot be fixed up by defaults.
func (c *Config) Validate() error {
	if _, err := c.TimestampUnit(); err != nil {
		return fmt.Errorf("%w: unit: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level must be one of debug, info, warn, error: %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}
