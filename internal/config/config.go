// Package config loads service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the bootcamp service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Capacity ServiceConfig  `yaml:"capacity"`
	User     ServiceConfig  `yaml:"user"`
	Metrics  ServiceConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// RedisConfig holds the optional Redis connection for the deletion outbox.
type RedisConfig struct {
	Addr string `yaml:"addr"`
}

// ServiceConfig holds the settings for one sibling microservice.
type ServiceConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and parses the configuration file, then applies environment
// overrides and defaults. A missing file is not an error when every
// required value is supplied by the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database url is required (database.url or DATABASE_URL)")
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("CAPACITY_BASE_URL"); v != "" {
		cfg.Capacity.BaseURL = v
	}
	if v := os.Getenv("USER_BASE_URL"); v != "" {
		cfg.User.BaseURL = v
	}
	if v := os.Getenv("METRICS_BASE_URL"); v != "" {
		cfg.Metrics.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8083
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Capacity.BaseURL == "" {
		cfg.Capacity.BaseURL = "http://localhost:8081"
	}
	if cfg.Capacity.TimeoutSeconds == 0 {
		cfg.Capacity.TimeoutSeconds = 30
	}
	if cfg.User.BaseURL == "" {
		cfg.User.BaseURL = "http://localhost:8082"
	}
	if cfg.User.TimeoutSeconds == 0 {
		cfg.User.TimeoutSeconds = 30
	}
	if cfg.Metrics.BaseURL == "" {
		cfg.Metrics.BaseURL = "http://localhost:8084"
	}
	if cfg.Metrics.TimeoutSeconds == 0 {
		cfg.Metrics.TimeoutSeconds = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
