// Package config loads the go-behavior service configuration and watches the
// live-parameter and catalog files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-behavior/pkg/behavior"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Defaults.
const (
	DefaultListen      = ":8090"
	DefaultRobotName   = "robot"
	DefaultLogLevel    = "info"
	DefaultEventBuffer = 1024
)

// Environment overrides.
const (
	EnvListen    = "BEHAVIOR_LISTEN"
	EnvRobotName = "BEHAVIOR_ROBOT_NAME"
	EnvLogLevel  = "BEHAVIOR_LOG_LEVEL"
	EnvCatalog   = "BEHAVIOR_CATALOG"
	EnvParams    = "BEHAVIOR_PARAMS"
	EnvSeed      = "BEHAVIOR_SEED"
)

// Config is the service configuration.
type Config struct {
	Listen      string `yaml:"listen" json:"listen"`
	RobotName   string `yaml:"robot_name" json:"robot_name"`
	LogLevel    string `yaml:"log_level" json:"log_level"`
	LogFormat   string `yaml:"log_format" json:"log_format"` // "text", "json" or empty for auto
	CatalogPath string `yaml:"catalog_path" json:"catalog_path"`
	ParamsPath  string `yaml:"params_path" json:"params_path"`
	Watch       bool   `yaml:"watch" json:"watch"`
	Seed        int64  `yaml:"seed" json:"seed"` // 0 seeds from the clock
	EventBuffer int    `yaml:"event_buffer" json:"event_buffer"`
}

// ConfigError describes one invalid field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalid, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalid }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:      DefaultListen,
		RobotName:   DefaultRobotName,
		LogLevel:    DefaultLogLevel,
		EventBuffer: DefaultEventBuffer,
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.LoadEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadEnv applies BEHAVIOR_* environment variables.
func (c *Config) LoadEnv() error {
	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
	if v := os.Getenv(EnvRobotName); v != "" {
		c.RobotName = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv(EnvParams); v != "" {
		c.ParamsPath = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return &ConfigError{Field: "seed", Reason: fmt.Sprintf("%s=%q is not an integer", EnvSeed, v)}
		}
		c.Seed = seed
	}
	return nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Listen == "" {
		return &ConfigError{Field: "listen", Reason: "must not be empty"}
	}
	if c.EventBuffer <= 0 {
		return &ConfigError{Field: "event_buffer", Reason: "must be positive"}
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "log_level", Reason: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return &ConfigError{Field: "log_format", Reason: fmt.Sprintf("unknown format %q", c.LogFormat)}
	}
	if c.Watch && c.ParamsPath == "" && c.CatalogPath == "" {
		return &ConfigError{Field: "watch", Reason: "needs params_path or catalog_path"}
	}
	return nil
}

// LoadParams reads a partial parameter update from a YAML file.
func LoadParams(path string) (behavior.ParamUpdate, error) {
	var u behavior.ParamUpdate
	data, err := os.ReadFile(path)
	if err != nil {
		return u, fmt.Errorf("config: read params %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &u); err != nil {
		return u, fmt.Errorf("config: parse params %s: %w", path, err)
	}
	return u, nil
}
