// Package config loads and saves the TOML application configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Loader  LoaderConfig  `toml:"loader"`
	Catch   CatchConfig   `toml:"catch"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	App     AppConfig     `toml:"app"`
}

// APIConfig contains PokeAPI client settings.
type APIConfig struct {
	BaseURL   string  `toml:"base_url"`   // API root
	RateLimit float64 `toml:"rate_limit"` // Requests per second (0 = unlimited)
	Timeout   string  `toml:"timeout"`    // HTTP timeout (e.g. "10s", "0s" = none)
	UserAgent string  `toml:"user_agent"`
	Fixture   string  `toml:"fixture"` // Offline YAML data set; overrides base_url when set
}

// LoaderConfig contains evolution loader settings.
type LoaderConfig struct {
	Concurrency  int `toml:"concurrency"`   // Parallel lookups while priming
	CatalogLimit int `toml:"catalog_limit"` // Catalog size fetched by default
}

// CatchConfig contains catch attempt settings.
type CatchConfig struct {
	Delay string `toml:"delay"` // Suspense delay before the roll (e.g. "1400ms")
}

// StorageConfig contains database settings.
type StorageConfig struct {
	DBPath         string `toml:"db_path"`         // Empty = <config dir>/pokemon.db
	BackupDir      string `toml:"backup_dir"`      // Empty = <db dir>/backups
	BackupInterval string `toml:"backup_interval"` // Scheduled backups while serving ("0s" = off)
	BackupKeep     int    `toml:"backup_keep"`     // Newest backups kept by the scheduler (0 = all)
}

// ServerConfig contains REST server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "https://pokeapi.co/api/v2",
			RateLimit: 20,
			Timeout:   "0s",
			UserAgent: "pokemon-catcher/1.0",
		},
		Loader: LoaderConfig{
			Concurrency:  8,
			CatalogLimit: 251,
		},
		Catch: CatchConfig{
			Delay: "1400ms",
		},
		Storage: StorageConfig{
			BackupInterval: "0s",
			BackupKeep:     7,
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// Dir returns the configuration directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".pokemon-catcher")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the default path.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from path. Missing keys keep their
// defaults; a missing file yields the default config.
func LoadFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return config, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.API.Fixture == "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid api base url %q", c.API.BaseURL)
		}
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative: %v", c.API.RateLimit)
	}
	if d, err := time.ParseDuration(c.API.Timeout); err != nil || d < 0 {
		return fmt.Errorf("invalid api timeout %q", c.API.Timeout)
	}
	if c.Loader.Concurrency < 1 {
		return fmt.Errorf("loader concurrency must be at least 1: %d", c.Loader.Concurrency)
	}
	if c.Loader.CatalogLimit < 1 {
		return fmt.Errorf("catalog limit must be at least 1: %d", c.Loader.CatalogLimit)
	}
	if d, err := time.ParseDuration(c.Catch.Delay); err != nil || d < 0 {
		return fmt.Errorf("invalid catch delay %q", c.Catch.Delay)
	}
	if d, err := time.ParseDuration(c.Storage.BackupInterval); err != nil || d < 0 {
		return fmt.Errorf("invalid backup interval %q", c.Storage.BackupInterval)
	}
	if c.Storage.BackupKeep < 0 {
		return fmt.Errorf("backup keep cannot be negative: %d", c.Storage.BackupKeep)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	return nil
}

// GetAPITimeout returns the HTTP timeout as a duration.
func (c *Config) GetAPITimeout() (time.Duration, error) {
	return time.ParseDuration(c.API.Timeout)
}

// GetCatchDelay returns the catch delay as a duration.
func (c *Config) GetCatchDelay() (time.Duration, error) {
	return time.ParseDuration(c.Catch.Delay)
}

// GetBackupInterval returns the scheduled backup interval as a duration.
func (c *Config) GetBackupInterval() (time.Duration, error) {
	return time.ParseDuration(c.Storage.BackupInterval)
}

// GetDBPath returns the database path, defaulting into the config directory.
func (c *Config) GetDBPath() (string, error) {
	if c.Storage.DBPath != "" {
		return c.Storage.DBPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pokemon.db"), nil
}
