// Package config loads server configuration.
//
// Values are layered, later sources winning:
//  1. Built-in defaults
//  2. YAML file (optional, e.g. config.yaml)
//  3. Environment variables prefixed with TABSPLIT_, including any loaded
//     from a .env file
//
// Example usage:
//
//	cfg, err := config.Load("config.yaml")
//	addr := cfg.HTTPAddr()
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/tabsplit/internal/calculator"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "TABSPLIT_"

// Config represents the entire server configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" koanf:"server"`
	Sessions   SessionsConfig   `yaml:"sessions" koanf:"sessions"`
	Allocation AllocationConfig `yaml:"allocation" koanf:"allocation"`
	Logging    LoggingConfig    `yaml:"logging" koanf:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics" koanf:"metrics"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port       string `yaml:"port" koanf:"port"`
	CORSOrigin string `yaml:"cors_origin" koanf:"cors_origin"`

	// RateLimit is a per-client limit such as "600-M". Empty disables it.
	RateLimit string `yaml:"rate_limit" koanf:"rate_limit"`
}

// SessionsConfig controls how long idle sessions are kept
type SessionsConfig struct {
	TTL           time.Duration `yaml:"ttl" koanf:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval" koanf:"sweep_interval"`
}

// AllocationConfig holds the calculator policies
type AllocationConfig struct {
	UnassignedPolicy string `yaml:"unassigned_policy" koanf:"unassigned_policy"`
	StrictReferences bool   `yaml:"strict_references" koanf:"strict_references"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" koanf:"enabled"`
	Namespace string `yaml:"namespace" koanf:"namespace"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "8080",
			RateLimit: "600-M",
		},
		Sessions: SessionsConfig{
			TTL:           6 * time.Hour,
			SweepInterval: 5 * time.Minute,
		},
		Allocation: AllocationConfig{
			UnassignedPolicy: string(calculator.UnassignedExclude),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "tabsplit",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables (e.g., ${PORT})
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays TABSPLIT_* variables onto c. The first underscore after
// the prefix separates the section from the key, so TABSPLIT_SERVER_CORS_ORIGIN
// sets server.cors_origin and TABSPLIT_SESSIONS_TTL sets sessions.ttl.
func (c *Config) applyEnv() error {
	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return fmt.Errorf("failed to load env: %w", err)
	}
	if err := k.UnmarshalWithConf("", c, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("failed to apply env overrides: %w", err)
	}
	return nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(strings.TrimPrefix(c.Server.Port, ":")); err != nil {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Server.Port))
	}
	if c.Sessions.TTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.Sessions.SweepInterval <= 0 {
		errs = append(errs, errors.New("sweep interval must be positive"))
	}
	if _, err := calculator.ParseUnassignedPolicy(c.Allocation.UnassignedPolicy); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Server.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// CalculatorOptions converts the allocation settings into calculator options.
func (c *Config) CalculatorOptions() []calculator.Option {
	policy, err := calculator.ParseUnassignedPolicy(c.Allocation.UnassignedPolicy)
	if err != nil {
		policy = calculator.UnassignedExclude
	}
	return []calculator.Option{
		calculator.WithUnassignedPolicy(policy),
		calculator.WithStrictReferences(c.Allocation.StrictReferences),
	}
}
