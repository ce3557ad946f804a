package storage

import (
	"fmt"
	"os"
	"strings"
)

const (
	// ProviderS3 stores blobs in Amazon S3 or an S3-compatible endpoint.
	ProviderS3 = "s3"
	// ProviderAzure stores blobs in Azure Blob Storage.
	ProviderAzure = "azure"
)

// Config selects and parameterizes the blob storage backend.
//
// Bucket names the S3 bucket or the Azure container. Endpoint overrides
// the S3 service endpoint and switches to path-style addressing.
// Azure authenticates with ConnectionString when set, otherwise with
// the default Azure credential chain against AccountURL.
type Config struct {
	Provider         string `toml:"provider"`
	Bucket           string `toml:"bucket"`
	Endpoint         string `toml:"endpoint"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider         string
	Bucket           string
	Endpoint         string
	ConnectionString string
	AccountURL       string
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
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Bucket != "" {
		c.Bucket = overlay.Bucket
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderS3
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.Bucket != "" {
		if v := os.Getenv(env.Bucket); v != "" {
			c.Bucket = v
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.AccountURL != "" {
		if v := os.Getenv(env.AccountURL); v != "" {
			c.AccountURL = v
		}
	}
}

func (c *Config) validate() error {
	c.Provider = strings.ToLower(c.Provider)

	if c.Bucket == "" {
		return fmt.Errorf("bucket required")
	}

	switch c.Provider {
	case ProviderS3:
		return nil
	case ProviderAzure:
		if c.ConnectionString == "" && c.AccountURL == "" {
			return fmt.Errorf("connection_string or account_url required for azure")
		}
		return nil
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
}
