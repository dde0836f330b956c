package dto

import (
	"fmt"
	"time"
)

// ApplicationConfig is the root configuration structure
type ApplicationConfig struct {
	Application   ApplicationInfo     `mapstructure:"application"`
	B3            B3Config            `mapstructure:"b3"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Parquet       ParquetConfig       `mapstructure:"parquet"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ApplicationInfo contains application metadata
type ApplicationInfo struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// B3Config contains upstream B3 API configuration
type B3Config struct {
	APIURL         string        `mapstructure:"api_url"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	Payload        PayloadConfig `mapstructure:"payload"`
}

// Timeout returns the HTTP client timeout; zero means no override.
func (c B3Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PayloadConfig contains the fields of the encoded index request
type PayloadConfig struct {
	Language string `mapstructure:"language"`
	Index    string `mapstructure:"index"`
	Segment  string `mapstructure:"segment"`
}

// StorageConfig contains storage backend configuration
type StorageConfig struct {
	Backend   string      `mapstructure:"backend"`
	Bucket    string      `mapstructure:"bucket"`
	KeyPrefix string      `mapstructure:"key_prefix"`
	S3        S3Config    `mapstructure:"s3"`
	Azure     AzureConfig `mapstructure:"azure"`
	GCS       GCSConfig   `mapstructure:"gcs"`
	File      FileConfig  `mapstructure:"file"`
}

// S3Config contains AWS S3 configuration
type S3Config struct {
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
	SSEEnabled   bool   `mapstructure:"sse_enabled"`
	SSEKMSKeyID  string `mapstructure:"sse_kms_key_id"`
}

// AzureConfig contains Azure Blob Storage configuration
type AzureConfig struct {
	AccountName string `mapstructure:"account_name"`
	AccountKey  string `mapstructure:"account_key"`
	Endpoint    string `mapstructure:"endpoint"`
}

// GCSConfig contains Google Cloud Storage configuration
type GCSConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	Endpoint        string `mapstructure:"endpoint"`
}

// FileConfig contains local filesystem configuration
type FileConfig struct {
	BasePath string `mapstructure:"base_path"`
}

// ParquetConfig contains Parquet format settings
type ParquetConfig struct {
	Compression string `mapstructure:"compression"`
}

// ObservabilityConfig contains observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Validate validates Azure configuration.
func (c *AzureConfig) Validate() error {
	if c.AccountName == "" {
		return fmt.Errorf("azure account name is required")
	}
	if c.AccountKey == "" {
		return fmt.Errorf("azure account key is required")
	}
	return nil
}

// Validate validates file configuration.
func (c *FileConfig) Validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("file base path is required")
	}
	return nil
}

// Validate validates payload configuration.
func (c *PayloadConfig) Validate() error {
	if c.Language == "" || c.Index == "" || c.Segment == "" {
		return fmt.Errorf("payload language, index and segment are required")
	}
	return nil
}
