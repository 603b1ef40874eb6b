// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for the HTTP
// server, the gateway, the dataset source, ranking parameters, logging and metrics.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Gateway GatewayConfig `yaml:"gateway"`
	Dataset DatasetConfig `yaml:"dataset"`
	Ranking RankingConfig `yaml:"ranking"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// GatewayConfig controls cross-origin access and per-client rate limiting.
// A RateLimit of 0 disables limiting.
type GatewayConfig struct {
	AllowOrigins    []string      `yaml:"allowOrigins"`
	RateLimit       int           `yaml:"rateLimit"`
	RateLimitWindow time.Duration `yaml:"rateLimitWindow"`
}

// DatasetConfig points at the CSV file the catalog is loaded from.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// RankingConfig controls the weighted-rating prior and result limits.
type RankingConfig struct {
	SensitivityThreshold float64 `yaml:"sensitivityThreshold"`
	DefaultLimit         int     `yaml:"defaultLimit"`
	MaxResults           int     `yaml:"maxResults"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided), applies environment-variable
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config suitable for local development.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Gateway: GatewayConfig{
			AllowOrigins:    []string{"*"},
			RateLimit:       600,
			RateLimitWindow: time.Minute,
		},
		Dataset: DatasetConfig{
			Path: "data/dataset.csv",
		},
		Ranking: RankingConfig{
			SensitivityThreshold: 10000,
			DefaultLimit:         10,
			MaxResults:           100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// Validate rejects settings the ranking engine and server cannot run with.
func (c *Config) Validate() error {
	if c.Ranking.SensitivityThreshold <= 0 {
		return fmt.Errorf("ranking.sensitivityThreshold must be positive, got %v", c.Ranking.SensitivityThreshold)
	}
	if c.Ranking.DefaultLimit < 0 {
		return fmt.Errorf("ranking.defaultLimit must be non-negative, got %d", c.Ranking.DefaultLimit)
	}
	if c.Ranking.MaxResults < 1 {
		return fmt.Errorf("ranking.maxResults must be at least 1, got %d", c.Ranking.MaxResults)
	}
	if c.Ranking.DefaultLimit > c.Ranking.MaxResults {
		return fmt.Errorf("ranking.defaultLimit %d exceeds ranking.maxResults %d", c.Ranking.DefaultLimit, c.Ranking.MaxResults)
	}
	if c.Gateway.RateLimit < 0 {
		return fmt.Errorf("gateway.rateLimit must be non-negative, got %d", c.Gateway.RateLimit)
	}
	if c.Gateway.RateLimit > 0 && c.Gateway.RateLimitWindow <= 0 {
		return fmt.Errorf("gateway.rateLimitWindow must be positive when rate limiting is enabled")
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	return nil
}

// applyEnvOverrides reads CA_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CA_GATEWAY_ALLOW_ORIGINS"); v != "" {
		cfg.Gateway.AllowOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("CA_GATEWAY_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.RateLimit = n
		}
	}
	if v := os.Getenv("CA_DATASET_PATH"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := os.Getenv("CA_RANKING_SENSITIVITY_THRESHOLD"); v != "" {
		if m, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ranking.SensitivityThreshold = m
		}
	}
	if v := os.Getenv("CA_RANKING_DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ranking.DefaultLimit = n
		}
	}
	if v := os.Getenv("CA_RANKING_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ranking.MaxResults = n
		}
	}
	if v := os.Getenv("CA_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CA_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("CA_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
	if v := os.Getenv("CA_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
