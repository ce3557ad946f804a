package config

import "os"

// Plain AWS-style variables accepted for deployments that predate the
// INTAKE_ prefix. They only fill values left empty by the config files;
// INTAKE_ variables still take precedence.
const (
	EnvAWSRegion          = "AWS_REGION"
	EnvAWSAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvS3Bucket           = "S3_BUCKET"
	EnvDynamoDBTable      = "DYNAMODB_TABLE"
)

func (c *Config) loadLegacyEnv() {
	fill(&c.AWS.Region, EnvAWSRegion)
	fill(&c.AWS.AccessKeyID, EnvAWSAccessKeyID)
	fill(&c.AWS.SecretAccessKey, EnvAWSSecretAccessKey)
	fill(&c.Storage.Bucket, EnvS3Bucket)
	fill(&c.Metadata.Table, EnvDynamoDBTable)
}

func fill(field *string, name string) {
	if *field != "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*field = v
	}
}
