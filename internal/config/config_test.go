package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 251, cfg.Loader.CatalogLimit)
	delay, err := cfg.GetCatchDelay()
	require.NoError(t, err)
	assert.Equal(t, 1400*time.Millisecond, delay)

	timeout, err := cfg.GetAPITimeout()
	require.NoError(t, err)
	assert.Zero(t, timeout)

	interval, err := cfg.GetBackupInterval()
	require.NoError(t, err)
	assert.Zero(t, interval)
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[loader]
concurrency = 2

[catch]
delay = "0s"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Loader.Concurrency)
	assert.Equal(t, 251, cfg.Loader.CatalogLimit)
	assert.Equal(t, "0s", cfg.Catch.Delay)
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.API.BaseURL)
}

func TestLoadFrom_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[loader\nconcurrency = "), 0o644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9090
	cfg.Storage.DBPath = "/tmp/pokemon.db"
	cfg.App.DebugMode = true
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	dbPath, err := loaded.GetDBPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pokemon.db", dbPath)
}

func TestValidate_Rejects(t *testing.T) {
	tests := map[string]func(*Config){
		"bad base url":         func(c *Config) { c.API.BaseURL = "not a url" },
		"negative rate":        func(c *Config) { c.API.RateLimit = -1 },
		"bad timeout":          func(c *Config) { c.API.Timeout = "soon" },
		"zero concurrency":     func(c *Config) { c.Loader.Concurrency = 0 },
		"zero catalog":         func(c *Config) { c.Loader.CatalogLimit = 0 },
		"negative delay":       func(c *Config) { c.Catch.Delay = "-1s" },
		"bad backup interval":  func(c *Config) { c.Storage.BackupInterval = "daily" },
		"negative backup keep": func(c *Config) { c.Storage.BackupKeep = -1 },
		"port out of range":    func(c *Config) { c.Server.Port = 70000 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_FixtureSkipsBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = ""
	cfg.API.Fixture = "testdata/pokedex.yaml"
	assert.NoError(t, cfg.Validate())
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, DefaultConfig().SaveTo(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zaptest.NewLogger(t), func(c *Config) { changes <- c })
	}()

	updated := DefaultConfig()
	updated.Loader.Concurrency = 3

	// The watcher starts asynchronously; keep writing until it reports.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case cfg := <-changes:
			// A reload can observe the file mid-write.
			if cfg.Loader.Concurrency != 3 {
				continue
			}
			cancel()
			require.NoError(t, <-done)
			return
		case <-ticker.C:
			require.NoError(t, updated.SaveTo(path))
		case <-deadline:
			t.Fatal("timed out waiting for config reload")
		}
	}
}
