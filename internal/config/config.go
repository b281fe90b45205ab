// Package config provides configuration management for the trading buddy.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "trade-buddy/internal/errors"
	"trade-buddy/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Journal JournalConfig `mapstructure:"journal"`
	Buddy   BuddyConfig   `mapstructure:"buddy"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`

	// Dir is the directory the configuration was loaded from.
	Dir string `mapstructure:"-"`
}

// JournalConfig holds trade journal storage configuration.
type JournalConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// BuddyConfig holds conversational buddy configuration.
type BuddyConfig struct {
	TypingBase   time.Duration `mapstructure:"typing_base"`
	TypingJitter time.Duration `mapstructure:"typing_jitter"`
	Greeting     string        `mapstructure:"greeting"`
}

// LoggingConfig mirrors logging.LogConfig for file based configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// DefaultGreeting opens every chat session.
const DefaultGreeting = "Hey, I'm your trading buddy. How are you feeling about the markets right now?"

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trade-buddy"
	}
	return filepath.Join(home, ".config", "trade-buddy")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is replaced by the template and defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config.toml: %w", err)
	}
	cfg.Dir = configDir

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	dir := DefaultConfigDir()
	v := viper.New()
	setDefaults(v, dir)

	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	cfg.Dir = dir
	return cfg
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("journal.db_path", filepath.Join(configDir, "journal.db"))

	v.SetDefault("buddy.typing_base", "1s")
	v.SetDefault("buddy.typing_jitter", "1s")
	v.SetDefault("buddy.greeting", DefaultGreeting)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "buddy.log"))
	v.SetDefault("logging.max_size", 20)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
	v.SetDefault("ui.time_format", "15:04")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BUDDY_DB_PATH"); v != "" {
		cfg.Journal.DBPath = v
	}
	if v := os.Getenv("BUDDY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Journal.DBPath == "" {
		return fmt.Errorf("%w: journal.db_path must be set", apperrors.ErrConfigInvalid)
	}
	if c.Buddy.TypingBase < 0 {
		return fmt.Errorf("%w: buddy.typing_base must be non-negative", apperrors.ErrConfigInvalid)
	}
	if c.Buddy.TypingJitter < 0 {
		return fmt.Errorf("%w: buddy.typing_jitter must be non-negative", apperrors.ErrConfigInvalid)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("%w: invalid logging level: %s (must be debug, info, warn, error or off)",
			apperrors.ErrConfigInvalid, c.Logging.Level)
	}
	return nil
}

// LogConfig converts the logging section into a logging.LogConfig.
func (c *Config) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      c.Logging.Level,
		Console:    c.Logging.Console,
		File:       c.Logging.File,
		FilePath:   c.Logging.FilePath,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
	}
}
