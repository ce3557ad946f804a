package awsclient

import (
	"fmt"
	"os"
)

// Config holds the AWS region and optional static credentials shared by
// the S3 and DynamoDB backends. When no keys are set the SDK's default
// credential chain is used.
type Config struct {
	Region          string `toml:"region"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	SessionToken    string `toml:"session_token"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
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
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.AccessKeyID != "" {
		c.AccessKeyID = overlay.AccessKeyID
	}
	if overlay.SecretAccessKey != "" {
		c.SecretAccessKey = overlay.SecretAccessKey
	}
	if overlay.SessionToken != "" {
		c.SessionToken = overlay.SessionToken
	}
}

// StaticCredentials reports whether explicit keys are configured.
func (c *Config) StaticCredentials() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

func (c *Config) loadDefaults() {
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Region != "" {
		if v := os.Getenv(env.Region); v != "" {
			c.Region = v
		}
	}
	if env.AccessKeyID != "" {
		if v := os.Getenv(env.AccessKeyID); v != "" {
			c.AccessKeyID = v
		}
	}
	if env.SecretAccessKey != "" {
		if v := os.Getenv(env.SecretAccessKey); v != "" {
			c.SecretAccessKey = v
		}
	}
	if env.SessionToken != "" {
		if v := os.Getenv(env.SessionToken); v != "" {
			c.SessionToken = v
		}
	}
}

func (c *Config) validate() error {
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("access_key_id and secret_access_key must be set together")
	}
	return nil
}
