package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("SERVER_ADDRESS", "news.example:9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ConfigDir)
	assert.Equal(t, filepath.Join(dir, "feedkeeper.db"), cfg.DataPath)
	assert.Equal(t, filepath.Join(dir, "identity.json"), cfg.IdentityPath)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 100, cfg.ArticleWindow)
	assert.Equal(t, 60*time.Second, cfg.SyncInterval)
	assert.Empty(t, cfg.LogLevel)
	assert.Equal(t, "http://news.example:9000", cfg.BaseURL())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("ARTICLE_WINDOW", "20")
	t.Setenv("ENABLE_TLS", "true")
	t.Setenv("OFFLINE", "true")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 20, cfg.ArticleWindow)
	assert.True(t, cfg.Offline)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Contains(t, cfg.BaseURL(), "https://")
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		ServerAddress:        "localhost:8080",
		MaxRetries:           3,
		ArticleWindow:        100,
		SyncInterval:         time.Minute,
		NetworkCheckInterval: time.Second,
		RequestTimeout:       time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty server", mutate: func(c *Config) { c.ServerAddress = "" }, wantErr: true},
		{name: "zero retries", mutate: func(c *Config) { c.MaxRetries = 0 }, wantErr: true},
		{name: "zero window", mutate: func(c *Config) { c.ArticleWindow = 0 }, wantErr: true},
		{name: "zero interval", mutate: func(c *Config) { c.SyncInterval = 0 }, wantErr: true},
		{name: "known log level", mutate: func(c *Config) { c.LogLevel = "debug" }},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
