package kvstore

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

const (
	// ProviderDynamoDB keeps items in an Amazon DynamoDB table.
	ProviderDynamoDB = "dynamodb"
	// ProviderPostgres keeps items as JSONB rows in a PostgreSQL table.
	ProviderPostgres = "postgres"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config selects and parameterizes the metadata store backend.
// KeyAttribute names the partition key attribute (DynamoDB) or the
// primary key column (Postgres).
type Config struct {
	Provider     string `toml:"provider"`
	Table        string `toml:"table"`
	KeyAttribute string `toml:"key_attribute"`
	Endpoint     string `toml:"endpoint"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider     string
	Table        string
	KeyAttribute string
	Endpoint     string
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
	if overlay.Table != "" {
		c.Table = overlay.Table
	}
	if overlay.KeyAttribute != "" {
		c.KeyAttribute = overlay.KeyAttribute
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderDynamoDB
	}
	if c.KeyAttribute == "" {
		c.KeyAttribute = "applicant_id"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.Table != "" {
		if v := os.Getenv(env.Table); v != "" {
			c.Table = v
		}
	}
	if env.KeyAttribute != "" {
		if v := os.Getenv(env.KeyAttribute); v != "" {
			c.KeyAttribute = v
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
}

func (c *Config) validate() error {
	c.Provider = strings.ToLower(c.Provider)

	switch c.Provider {
	case ProviderDynamoDB:
		if c.Table == "" {
			return fmt.Errorf("table required")
		}
	case ProviderPostgres:
		if c.Table == "" {
			c.Table = "applicants"
		}
		if !identifier.MatchString(c.Table) {
			return fmt.Errorf("invalid table name %q", c.Table)
		}
		if !identifier.MatchString(c.KeyAttribute) {
			return fmt.Errorf("invalid key attribute %q", c.KeyAttribute)
		}
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	return nil
}
