package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/intake/internal/config"
)

const baseConfig = `
version = "1.2.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "15m"
write_timeout = "15m"
shutdown_timeout = "30s"

[logging]
level = "debug"
format = "json"

[aws]
region = "eu-west-1"

[storage]
provider = "s3"
bucket = "cv-bucket"

[metadata]
provider = "dynamodb"
table = "Applicants"

[api]
max_upload_size = "500MB"
store_timeout = "30s"

[api.cors]
enabled = true
origins = ["https://careers.example.com"]
`

const overlayConfig = `
[server]
port = 9090

[api]
cleanup_orphans = false
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

// clearLegacy blanks the plain AWS variables so a developer's shell does
// not leak into assertions.
func clearLegacy(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvAWSRegion, config.EnvAWSAccessKeyID, config.EnvAWSSecretAccessKey,
		config.EnvS3Bucket, config.EnvDynamoDBTable,
	} {
		t.Setenv(name, "")
	}
}

func TestLoad(t *testing.T) {
	clearLegacy(t)
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "1.2.0" {
		t.Errorf("version: got %s", cfg.Version)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging: got %+v", cfg.Logging)
	}
	if cfg.AWS.Region != "eu-west-1" {
		t.Errorf("aws region: got %s", cfg.AWS.Region)
	}
	if cfg.Storage.Bucket != "cv-bucket" {
		t.Errorf("storage bucket: got %s", cfg.Storage.Bucket)
	}
	if cfg.Metadata.Table != "Applicants" || cfg.Metadata.KeyAttribute != "applicant_id" {
		t.Errorf("metadata: got %+v", cfg.Metadata)
	}
	if !cfg.API.CORS.Enabled || cfg.API.CORS.Origins[0] != "https://careers.example.com" {
		t.Errorf("cors: got %+v", cfg.API.CORS)
	}
	if cfg.API.StoreTimeoutDuration() != 30*time.Second {
		t.Errorf("store timeout: got %v", cfg.API.StoreTimeoutDuration())
	}
	if !cfg.API.CleanupOrphansEnabled() {
		t.Error("cleanup orphans should default to true")
	}
	if cfg.UsesDatabase() {
		t.Error("dynamodb metadata should not require a database")
	}
	if !cfg.UsesAWS() {
		t.Error("s3 storage should require aws")
	}
}

func TestLoadWithOverlay(t *testing.T) {
	clearLegacy(t)
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("INTAKE_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Storage.Bucket != "cv-bucket" {
		t.Errorf("storage bucket: got %s, want cv-bucket (from base)", cfg.Storage.Bucket)
	}
	if cfg.API.CleanupOrphansEnabled() {
		t.Error("overlay should disable orphan cleanup")
	}
	if cfg.Env() != "staging" {
		t.Errorf("env: got %s", cfg.Env())
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	clearLegacy(t)
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("INTAKE_VERSION", "2.0.0")
	t.Setenv("INTAKE_SERVER_PORT", "3000")
	t.Setenv("INTAKE_STORAGE_BUCKET", "env-bucket")
	t.Setenv("INTAKE_API_MAX_UPLOAD_SIZE", "100MB")
	t.Setenv("INTAKE_API_CLEANUP_ORPHANS", "false")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Storage.Bucket != "env-bucket" {
		t.Errorf("bucket: got %s", cfg.Storage.Bucket)
	}
	if cfg.API.MaxUploadSizeBytes() != 100<<20 {
		t.Errorf("max upload: got %d", cfg.API.MaxUploadSizeBytes())
	}
	if cfg.API.CleanupOrphansEnabled() {
		t.Error("env should disable orphan cleanup")
	}
}

func TestLoadLegacyEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv(config.EnvAWSRegion, "ap-south-1")
	t.Setenv(config.EnvS3Bucket, "legacy-bucket")
	t.Setenv(config.EnvDynamoDBTable, "LegacyTable")
	t.Setenv(config.EnvAWSAccessKeyID, "AKID")
	t.Setenv(config.EnvAWSSecretAccessKey, "SECRET")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.AWS.Region != "ap-south-1" {
		t.Errorf("region: got %s", cfg.AWS.Region)
	}
	if cfg.Storage.Bucket != "legacy-bucket" {
		t.Errorf("bucket: got %s", cfg.Storage.Bucket)
	}
	if cfg.Metadata.Table != "LegacyTable" {
		t.Errorf("table: got %s", cfg.Metadata.Table)
	}
	if !cfg.AWS.StaticCredentials() {
		t.Error("legacy keys should configure static credentials")
	}
	if cfg.API.MaxUploadSizeBytes() != 500<<20 {
		t.Errorf("default max upload: got %d", cfg.API.MaxUploadSizeBytes())
	}
	if cfg.Server.ReadTimeoutDuration() != 15*time.Minute {
		t.Errorf("read timeout default: got %v", cfg.Server.ReadTimeoutDuration())
	}
}

func TestLoadShippedConfigHonorsLegacyEnv(t *testing.T) {
	shipped, err := os.ReadFile(filepath.Join("..", "..", config.BaseConfigFile))
	if err != nil {
		t.Fatalf("read shipped config: %v", err)
	}

	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, string(shipped))
	chdir(t, dir)

	t.Setenv(config.EnvAWSRegion, "eu-west-1")
	t.Setenv(config.EnvS3Bucket, "legacy-bucket")
	t.Setenv(config.EnvDynamoDBTable, "LegacyTable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.AWS.Region != "eu-west-1" {
		t.Errorf("region: got %s, want eu-west-1", cfg.AWS.Region)
	}
	if cfg.Storage.Bucket != "legacy-bucket" {
		t.Errorf("bucket: got %s, want legacy-bucket", cfg.Storage.Bucket)
	}
	if cfg.Metadata.Table != "LegacyTable" {
		t.Errorf("table: got %s, want LegacyTable", cfg.Metadata.Table)
	}
}

func TestLoadShippedConfigDefaultsRegion(t *testing.T) {
	shipped, err := os.ReadFile(filepath.Join("..", "..", config.BaseConfigFile))
	if err != nil {
		t.Fatalf("read shipped config: %v", err)
	}

	clearLegacy(t)
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, string(shipped))
	chdir(t, dir)

	t.Setenv("INTAKE_STORAGE_BUCKET", "cv-uploads")
	t.Setenv("INTAKE_METADATA_TABLE", "Applicants")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.AWS.Region != "us-east-1" {
		t.Errorf("region: got %s, want us-east-1", cfg.AWS.Region)
	}
	if cfg.API.MaxUploadSizeBytes() != 500<<20 {
		t.Errorf("max upload: got %d", cfg.API.MaxUploadSizeBytes())
	}
}

func TestLoadPrefixedEnvBeatsLegacy(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv(config.EnvS3Bucket, "legacy-bucket")
	t.Setenv(config.EnvDynamoDBTable, "LegacyTable")
	t.Setenv("INTAKE_STORAGE_BUCKET", "intake-bucket")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Storage.Bucket != "intake-bucket" {
		t.Errorf("bucket: got %s, want intake-bucket", cfg.Storage.Bucket)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearLegacy(t)
	dir := t.TempDir()
	writeConfig(t, dir, ".env", "INTAKE_STORAGE_BUCKET=dotenv-bucket\nINTAKE_METADATA_TABLE=DotEnvTable\n")
	chdir(t, dir)

	t.Cleanup(func() {
		os.Unsetenv("INTAKE_STORAGE_BUCKET")
		os.Unsetenv("INTAKE_METADATA_TABLE")
	})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Storage.Bucket != "dotenv-bucket" || cfg.Metadata.Table != "DotEnvTable" {
		t.Errorf("dotenv values not applied: %+v %+v", cfg.Storage, cfg.Metadata)
	}
}

func TestLoadPostgresRequiresDatabase(t *testing.T) {
	clearLegacy(t)
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `
[storage]
provider = "azure"
bucket = "cvs"
connection_string = "UseDevelopmentStorage=true"

[metadata]
provider = "postgres"
`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil || !strings.Contains(err.Error(), "database") {
		t.Fatalf("expected database validation error, got %v", err)
	}

	t.Setenv("INTAKE_DB_NAME", "intake")
	t.Setenv("INTAKE_DB_USER", "intake")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.UsesDatabase() || cfg.UsesAWS() {
		t.Errorf("providers: database=%v aws=%v", cfg.UsesDatabase(), cfg.UsesAWS())
	}
	if cfg.Metadata.Table != "applicants" {
		t.Errorf("table: got %s", cfg.Metadata.Table)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `[server`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "invalid port",
			config:  "[server]\nport = 99999\n[storage]\nbucket = \"b\"\n[metadata]\ntable = \"t\"\n",
			wantErr: "invalid port",
		},
		{
			name:    "missing bucket",
			config:  "[metadata]\ntable = \"t\"\n",
			wantErr: "bucket required",
		},
		{
			name:    "invalid upload size",
			config:  "[storage]\nbucket = \"b\"\n[metadata]\ntable = \"t\"\n[api]\nmax_upload_size = \"lots\"\n",
			wantErr: "invalid max_upload_size",
		},
		{
			name:    "invalid store timeout",
			config:  "[storage]\nbucket = \"b\"\n[metadata]\ntable = \"t\"\n[api]\nstore_timeout = \"soon\"\n",
			wantErr: "invalid store_timeout",
		},
		{
			name:    "auth without issuer",
			config:  "[storage]\nbucket = \"b\"\n[metadata]\ntable = \"t\"\n[api.auth]\nenabled = true\n",
			wantErr: "issuer required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearLegacy(t)
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error: got %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		size string
		want int64
	}{
		{"500MB", 500 << 20},
		{"500MiB", 500 << 20},
		{"1GB", 1 << 30},
		{"bad", 500 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}
