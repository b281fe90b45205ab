package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trade-buddy/internal/errors"
)

func TestLoadCreatesTemplateWhenMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, statErr)

	assert.Equal(t, filepath.Join(dir, "journal.db"), cfg.Journal.DBPath)
	assert.Equal(t, time.Second, cfg.Buddy.TypingBase)
	assert.Equal(t, time.Second, cfg.Buddy.TypingJitter)
	assert.Equal(t, DefaultGreeting, cfg.Buddy.Greeting)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, dir, cfg.Dir)
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[journal]
db_path = "/tmp/custom.db"

[buddy]
typing_base = "250ms"
typing_jitter = "0s"

[logging]
level = "debug"
file = false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.Journal.DBPath)
	assert.Equal(t, 250*time.Millisecond, cfg.Buddy.TypingBase)
	assert.Equal(t, time.Duration(0), cfg.Buddy.TypingJitter)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.File)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultGreeting, cfg.Buddy.Greeting)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BUDDY_DB_PATH", "/var/lib/buddy.db")
	t.Setenv("BUDDY_LOG_LEVEL", "warn")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/buddy.db", cfg.Journal.DBPath)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty db path", func(c *Config) { c.Journal.DBPath = "" }, false},
		{"negative base", func(c *Config) { c.Buddy.TypingBase = -time.Second }, false},
		{"negative jitter", func(c *Config) { c.Buddy.TypingJitter = -1 }, false},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
		})
	}
}

func TestLogConfig(t *testing.T) {
	cfg := Default()
	lc := cfg.LogConfig()
	assert.Equal(t, cfg.Logging.Level, lc.Level)
	assert.Equal(t, cfg.Logging.FilePath, lc.FilePath)
	assert.Equal(t, cfg.Logging.MaxBackups, lc.MaxBackups)
}
