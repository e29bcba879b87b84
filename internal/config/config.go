// Package config loads runtime configuration from an optional YAML file with
// SUNBUN_* environment variables layered on top. Command-line flags, applied
// by the caller, take precedence over both.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	Logging LoggingConfig `yaml:"logging"`
	Dataset DatasetConfig `yaml:"dataset"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RedisConfig controls state persistence. When Addr is empty the in-memory
// store is used and locking stays process-local.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatasetConfig points at an alternative dataset file. Empty means the
// embedded dataset.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			TTL: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (when
// path is non-empty), then SUNBUN_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "SUNBUN_SERVER_ADDR")
	setDuration(&cfg.Server.ShutdownTimeout, "SUNBUN_SERVER_SHUTDOWN_TIMEOUT")
	setString(&cfg.Redis.Addr, "SUNBUN_REDIS_ADDR")
	setString(&cfg.Redis.Password, "SUNBUN_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "SUNBUN_REDIS_DB")
	setDuration(&cfg.Redis.TTL, "SUNBUN_REDIS_TTL")
	setString(&cfg.Logging.Level, "SUNBUN_LOG_LEVEL")
	setString(&cfg.Logging.Format, "SUNBUN_LOG_FORMAT")
	setString(&cfg.Dataset.Path, "SUNBUN_DATASET_PATH")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
