package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/intake/pkg/auth"
	"github.com/JaimeStill/intake/pkg/formatting"
	"github.com/JaimeStill/intake/pkg/middleware"
)

const (
	EnvAPIMaxUploadSize  = "INTAKE_API_MAX_UPLOAD_SIZE"
	EnvAPICleanupOrphans = "INTAKE_API_CLEANUP_ORPHANS"
	EnvAPIStoreTimeout   = "INTAKE_API_STORE_TIMEOUT"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "INTAKE_CORS_ENABLED",
	Origins:          "INTAKE_CORS_ORIGINS",
	AllowedMethods:   "INTAKE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "INTAKE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "INTAKE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "INTAKE_CORS_MAX_AGE",
}

var authEnv = &auth.Env{
	Enabled:  "INTAKE_AUTH_ENABLED",
	Issuer:   "INTAKE_AUTH_ISSUER",
	Audience: "INTAKE_AUTH_AUDIENCE",
}

// APIConfig holds upload handling, CORS, and authentication settings.
// CleanupOrphans is a pointer so an explicit false in a file survives
// defaults.
type APIConfig struct {
	MaxUploadSize  string                `toml:"max_upload_size"`
	CleanupOrphans *bool                 `toml:"cleanup_orphans"`
	StoreTimeout   string                `toml:"store_timeout"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Auth           auth.Config           `toml:"auth"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 500 * 1024 * 1024
	}
	return size
}

// CleanupOrphansEnabled reports whether a blob is deleted when its
// metadata write fails. Defaults to true.
func (c *APIConfig) CleanupOrphansEnabled() bool {
	return c.CleanupOrphans == nil || *c.CleanupOrphans
}

// StoreTimeoutDuration returns StoreTimeout as a time.Duration; zero when unset.
func (c *APIConfig) StoreTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.StoreTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and auth configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.CleanupOrphans != nil {
		c.CleanupOrphans = overlay.CleanupOrphans
	}
	if overlay.StoreTimeout != "" {
		c.StoreTimeout = overlay.StoreTimeout
	}

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
}

func (c *APIConfig) loadDefaults() {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "500MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv(EnvAPICleanupOrphans); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.CleanupOrphans = &b
		}
	}
	if v := os.Getenv(EnvAPIStoreTimeout); v != "" {
		c.StoreTimeout = v
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	if c.StoreTimeout != "" {
		if _, err := time.ParseDuration(c.StoreTimeout); err != nil {
			return fmt.Errorf("invalid store_timeout: %w", err)
		}
	}
	return nil
}
