package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trade Buddy Configuration

[journal]
# SQLite database holding the trade log. Defaults to journal.db next to this file.
# db_path = "/path/to/journal.db"

[buddy]
# Simulated typing delay before each reply: base + random jitter
typing_base = "1s"
typing_jitter = "1s"
# First message of every chat session
greeting = "Hey, I'm your trading buddy. How are you feeling about the markets right now?"

[logging]
# debug, info, warn, error, off
level = "info"
console = true
file = true
max_size = 20
max_backups = 5
max_age = 30

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04"
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
