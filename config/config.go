// Package config loads the application configuration of the carousel tools
// from YAML, .env files and CAROUSEL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/carousel/layout"
	"github.com/sarchlab/carousel/rotation"
	"github.com/sarchlab/carousel/widget"
)

// ErrUnknownVariant is returned when the variant names no widget preset.
var ErrUnknownVariant = errors.New("unknown variant")

// Environment variables that override file values.
const (
	EnvVariant     = "CAROUSEL_VARIANT"
	EnvAutoAdvance = "CAROUSEL_AUTO_ADVANCE"
	EnvSettleDelay = "CAROUSEL_SETTLE_DELAY"
	EnvBreakpoints = "CAROUSEL_BREAKPOINTS"
	EnvWrap        = "CAROUSEL_WRAP"
	EnvCadence     = "CAROUSEL_CADENCE"
	EnvMonitorPort = "CAROUSEL_MONITOR_PORT"
	EnvLogLevel    = "CAROUSEL_LOG_LEVEL"
)

// Config holds all configuration of the carousel tools. Empty fields fall
// back to the variant preset.
type Config struct {
	// Variant selects a widget preset, e.g. "client-slider".
	Variant string `yaml:"variant"`

	// AutoAdvance is a duration such as "3s". "0" disables auto-advance.
	AutoAdvance string `yaml:"auto_advance"`

	// SettleDelay is a duration such as "300ms".
	SettleDelay string `yaml:"settle_delay"`

	// Breakpoints is a table such as "0:1,768:4".
	Breakpoints string `yaml:"breakpoints"`

	Wrap    *bool  `yaml:"wrap,omitempty"`
	Cadence string `yaml:"cadence"`

	Monitor MonitorConfig `yaml:"monitor"`
	Logging LoggingConfig `yaml:"logging"`
}

// MonitorConfig configures the HTTP monitor.
type MonitorConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Variant: string(widget.VariantAutoScroll),
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadDotEnv loads .env files into the environment. Missing files are
// skipped and variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}

	return nil
}

// Load loads configuration from a YAML file and applies the environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)

		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() error {
	for env, field := range map[string]*string{
		EnvVariant:     &c.Variant,
		EnvAutoAdvance: &c.AutoAdvance,
		EnvSettleDelay: &c.SettleDelay,
		EnvBreakpoints: &c.Breakpoints,
		EnvCadence:     &c.Cadence,
		EnvLogLevel:    &c.Logging.Level,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}

	if v := os.Getenv(EnvWrap); v != "" {
		wrap, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWrap, err)
		}

		c.Wrap = &wrap
	}

	if v := os.Getenv(EnvMonitorPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMonitorPort, err)
		}

		c.Monitor.Port = port
	}

	return nil
}

// RotationConfig resolves the variant preset and applies the explicit
// settings on top of it.
func (c *Config) RotationConfig() (rotation.Config, error) {
	cfg := rotation.DefaultConfig()

	if c.Variant != "" {
		preset, ok := widget.Preset(widget.Variant(c.Variant))
		if !ok {
			return rotation.Config{}, fmt.Errorf("%w: %q", ErrUnknownVariant, c.Variant)
		}

		cfg = preset
	}

	var err error

	if cfg.AutoAdvance, err = overrideDuration(cfg.AutoAdvance, c.AutoAdvance); err != nil {
		return rotation.Config{}, fmt.Errorf("invalid auto_advance: %w", err)
	}

	if cfg.SettleDelay, err = overrideDuration(cfg.SettleDelay, c.SettleDelay); err != nil {
		return rotation.Config{}, fmt.Errorf("invalid settle_delay: %w", err)
	}

	if c.Breakpoints != "" {
		if cfg.Breakpoints, err = layout.ParseTable(c.Breakpoints); err != nil {
			return rotation.Config{}, fmt.Errorf("invalid breakpoints: %w", err)
		}
	}

	if c.Wrap != nil {
		cfg.Wrap = *c.Wrap
	}

	if c.Cadence != "" {
		if cfg.Cadence, err = rotation.ParseCadence(c.Cadence); err != nil {
			return rotation.Config{}, err
		}
	}

	return cfg, nil
}

func overrideDuration(d time.Duration, s string) (time.Duration, error) {
	if s == "" {
		return d, nil
	}

	return time.ParseDuration(s)
}
