// Package config loads the service configuration from TOML files, a .env
// file, and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/intake/pkg/awsclient"
	"github.com/JaimeStill/intake/pkg/database"
	"github.com/JaimeStill/intake/pkg/kvstore"
	"github.com/JaimeStill/intake/pkg/logging"
	"github.com/JaimeStill/intake/pkg/openapi"
	"github.com/JaimeStill/intake/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvIntakeEnv     = "INTAKE_ENV"
	EnvIntakeVersion = "INTAKE_VERSION"
)

// DatabaseEnv names the variables that override the database section.
var DatabaseEnv = &database.Env{
	Host:         "INTAKE_DB_HOST",
	Port:         "INTAKE_DB_PORT",
	Name:         "INTAKE_DB_NAME",
	User:         "INTAKE_DB_USER",
	Password:     "INTAKE_DB_PASSWORD",
	SSLMode:      "INTAKE_DB_SSL_MODE",
	MaxOpenConns: "INTAKE_DB_MAX_OPEN_CONNS",
	ConnTimeout:  "INTAKE_DB_CONN_TIMEOUT",
}

var loggingEnv = &logging.Env{
	Level:      "INTAKE_LOG_LEVEL",
	Format:     "INTAKE_LOG_FORMAT",
	File:       "INTAKE_LOG_FILE",
	MaxSizeMB:  "INTAKE_LOG_MAX_SIZE_MB",
	MaxAgeDays: "INTAKE_LOG_MAX_AGE_DAYS",
}

var awsEnv = &awsclient.Env{
	Region:          "INTAKE_AWS_REGION",
	AccessKeyID:     "INTAKE_AWS_ACCESS_KEY_ID",
	SecretAccessKey: "INTAKE_AWS_SECRET_ACCESS_KEY",
	SessionToken:    "INTAKE_AWS_SESSION_TOKEN",
}

var storageEnv = &storage.Env{
	Provider:         "INTAKE_STORAGE_PROVIDER",
	Bucket:           "INTAKE_STORAGE_BUCKET",
	Endpoint:         "INTAKE_STORAGE_ENDPOINT",
	ConnectionString: "INTAKE_STORAGE_CONNECTION_STRING",
	AccountURL:       "INTAKE_STORAGE_ACCOUNT_URL",
}

var metadataEnv = &kvstore.Env{
	Provider:     "INTAKE_METADATA_PROVIDER",
	Table:        "INTAKE_METADATA_TABLE",
	KeyAttribute: "INTAKE_METADATA_KEY_ATTRIBUTE",
	Endpoint:     "INTAKE_METADATA_ENDPOINT",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "INTAKE_OPENAPI_TITLE",
	Description: "INTAKE_OPENAPI_DESCRIPTION",
}

// Config is the root configuration for the intake service.
type Config struct {
	Server   ServerConfig     `toml:"server"`
	Logging  logging.Config   `toml:"logging"`
	AWS      awsclient.Config `toml:"aws"`
	Storage  storage.Config   `toml:"storage"`
	Metadata kvstore.Config   `toml:"metadata"`
	Database database.Config  `toml:"database"`
	API      APIConfig        `toml:"api"`
	OpenAPI  openapi.Config   `toml:"openapi"`
	Version  string           `toml:"version"`
}

// Env returns the INTAKE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvIntakeEnv); env != "" {
		return env
	}
	return "local"
}

// UsesAWS reports whether either store is backed by an AWS service.
func (c *Config) UsesAWS() bool {
	return c.Storage.Provider == storage.ProviderS3 || c.Metadata.Provider == kvstore.ProviderDynamoDB
}

// UsesDatabase reports whether the metadata store is backed by Postgres.
func (c *Config) UsesDatabase() bool {
	return c.Metadata.Provider == kvstore.ProviderPostgres
}

// Load reads .env (if present) into the environment, then the base config
// (if present), applies any environment overlay, and finalizes all values.
// If no config.toml exists, defaults and environment variables provide all
// configuration.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv copies variables from a .env file in the working directory
// into the process environment. Variables already set are kept.
func LoadDotEnv() error {
	err := godotenv.Load(DotEnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", DotEnvFile, err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Logging.Merge(&overlay.Logging)
	c.AWS.Merge(&overlay.AWS)
	c.Storage.Merge(&overlay.Storage)
	c.Metadata.Merge(&overlay.Metadata)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()
	c.loadLegacyEnv()

	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.AWS.Finalize(awsEnv); err != nil {
		return fmt.Errorf("aws: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Metadata.Finalize(metadataEnv); err != nil {
		return fmt.Errorf("metadata: %w", err)
	}
	if c.UsesDatabase() {
		if err := c.Database.Finalize(DatabaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.Version == "" {
		c.Version = "1.0.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvIntakeVersion); v != "" {
		c.Version = v
	}
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath() string {
	env := os.Getenv(EnvIntakeEnv)
	if env == "" {
		return ""
	}

	path := fmt.Sprintf(OverlayConfigPattern, env)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
