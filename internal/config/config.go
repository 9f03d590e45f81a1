// Package config provides unified configuration loading for the catalog tooling.
// Supports YAML files, .env files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the catalog tooling.
type Config struct {
	Input         InputConfig         `yaml:"input"`
	Output        OutputConfig        `yaml:"output"`
	Placement     PlacementConfig     `yaml:"placement"`
	Overrides     OverridesConfig     `yaml:"overrides"`
	Database      DatabaseConfig      `yaml:"database"`
	Cache         CacheConfig         `yaml:"cache"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// InputConfig locates the source catalog.
type InputConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig controls where normalized records are written.
type OutputConfig struct {
	Path   string `yaml:"path"`
	Indent string `yaml:"indent"`
}

// PlacementConfig controls the fallback jitter for untabulated names.
type PlacementConfig struct {
	// Seed makes jitter reproducible. Zero seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// OverridesConfig points at an optional YAML file extending the built-in tables.
type OverridesConfig struct {
	Path string `yaml:"path"`
}

// DatabaseConfig holds snapshot export settings.
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"` // sqlite or postgres
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig holds Postgres-specific settings.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// CacheConfig holds publish target settings.
type CacheConfig struct {
	TTL   time.Duration `yaml:"ttl"`
	Redis RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment overrides.
// Relative paths inside the file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}

		cfg.resolvePaths(path)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with defaults matching the repository layout.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Path: "Catalog of BI tools.csv",
		},
		Output: OutputConfig{
			Path:   filepath.Join("src", "data", "tools.json"),
			Indent: "  ",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{
				Path: "catalog.db",
			},
			Postgres: PostgresConfig{
				MaxOpenConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Cache: CacheConfig{
			TTL: 0,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 4,
				Prefix:   "catalog:",
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input.Path) == "" {
		return fmt.Errorf("input path is required")
	}

	if strings.TrimSpace(c.Output.Path) == "" {
		return fmt.Errorf("output path is required")
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("invalid database driver: %s", c.Database.Driver)
	}

	if c.Observability.LogFormat != "json" && c.Observability.LogFormat != "console" {
		return fmt.Errorf("invalid log format: %s", c.Observability.LogFormat)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}

	return nil
}

// DatabaseDSN returns the appropriate database connection string.
func (c *Config) DatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.SQLite.Path
	}
	return c.Database.Postgres.DSN
}

func (c *Config) resolvePaths(configPath string) {
	c.Input.Path = ResolveRelativePath(configPath, c.Input.Path)
	c.Output.Path = ResolveRelativePath(configPath, c.Output.Path)
	if c.Overrides.Path != "" {
		c.Overrides.Path = ResolveRelativePath(configPath, c.Overrides.Path)
	}
	if c.Database.SQLite.Path != "" && c.Database.SQLite.Path != ":memory:" {
		c.Database.SQLite.Path = ResolveRelativePath(configPath, c.Database.SQLite.Path)
	}
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CATALOG_INPUT"); v != "" {
		cfg.Input.Path = v
	}

	if v := os.Getenv("CATALOG_OUTPUT"); v != "" {
		cfg.Output.Path = v
	}

	if v := os.Getenv("CATALOG_OVERRIDES"); v != "" {
		cfg.Overrides.Path = v
	}

	if v := os.Getenv("CATALOG_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Placement.Seed = seed
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		if strings.HasPrefix(v, "sqlite:") {
			cfg.Database.Driver = "sqlite"
			cfg.Database.SQLite.Path = strings.TrimPrefix(v, "sqlite:")
		} else if strings.HasPrefix(v, "postgres") {
			cfg.Database.Driver = "postgres"
			cfg.Database.Postgres.DSN = v
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// ResolveRelativePath resolves a path relative to the config file location.
func ResolveRelativePath(configPath, targetPath string) string {
	if filepath.IsAbs(targetPath) {
		return targetPath
	}
	configDir := filepath.Dir(configPath)
	return filepath.Join(configDir, targetPath)
}
