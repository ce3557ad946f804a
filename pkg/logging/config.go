package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config controls the level, encoding, and optional rotating file output
// of the service logger.
type Config struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  string
	MaxAgeDays string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.File != "" {
		c.File = overlay.File
	}
	if overlay.MaxSizeMB != 0 {
		c.MaxSizeMB = overlay.MaxSizeMB
	}
	if overlay.MaxAgeDays != 0 {
		c.MaxAgeDays = overlay.MaxAgeDays
	}
}

// SlogLevel returns Level as a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) loadDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "text"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 1
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 10
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Level != "" {
		if v := os.Getenv(env.Level); v != "" {
			c.Level = v
		}
	}
	if env.Format != "" {
		if v := os.Getenv(env.Format); v != "" {
			c.Format = v
		}
	}
	if env.File != "" {
		if v := os.Getenv(env.File); v != "" {
			c.File = v
		}
	}
	if env.MaxSizeMB != "" {
		if v := os.Getenv(env.MaxSizeMB); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxSizeMB = n
			}
		}
	}
	if env.MaxAgeDays != "" {
		if v := os.Getenv(env.MaxAgeDays); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxAgeDays = n
			}
		}
	}
}

func (c *Config) validate() error {
	c.Level = strings.ToLower(c.Level)
	c.Format = strings.ToLower(c.Format)

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return fmt.Errorf("invalid level %q", c.Level)
	}
	if c.Format != "text" && c.Format != "json" {
		return fmt.Errorf("invalid format %q", c.Format)
	}
	return nil
}
