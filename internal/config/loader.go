package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jittakal/b3extractor/internal/config/dto"
	"github.com/jittakal/b3extractor/internal/encoder"
	apperrors "github.com/jittakal/b3extractor/internal/errors"
	"github.com/spf13/viper"
)

// Environment variables bound to configuration keys. The first name found wins.
var envBindings = map[string][]string{
	"b3.api_url":                   {"B3_API_URL"},
	"b3.timeout_seconds":           {"B3_HTTP_TIMEOUT_SECONDS"},
	"b3.payload.language":          {"B3_LANGUAGE"},
	"b3.payload.index":             {"B3_INDEX"},
	"b3.payload.segment":           {"B3_SEGMENT"},
	"storage.backend":              {"STORAGE_BACKEND"},
	"storage.bucket":               {"BUCKET_NAME"},
	"storage.key_prefix":           {"STORAGE_KEY_PREFIX"},
	"storage.s3.region":            {"S3_REGION", "AWS_REGION"},
	"storage.s3.endpoint":          {"S3_ENDPOINT"},
	"storage.s3.use_path_style":    {"S3_USE_PATH_STYLE"},
	"storage.s3.sse_enabled":       {"S3_SSE_ENABLED"},
	"storage.s3.sse_kms_key_id":    {"S3_SSE_KMS_KEY_ID"},
	"storage.gcs.project_id":       {"GCS_PROJECT_ID"},
	"storage.gcs.credentials_file": {"GCS_CREDENTIALS_FILE"},
	"storage.gcs.endpoint":         {"GCS_ENDPOINT"},
	"storage.azure.account_name":   {"AZURE_STORAGE_ACCOUNT_NAME"},
	"storage.azure.account_key":    {"AZURE_STORAGE_ACCOUNT_KEY"},
	"storage.azure.endpoint":       {"AZURE_STORAGE_ENDPOINT"},
	"storage.file.base_path":       {"FILE_BASE_PATH"},
	"parquet.compression":          {"PARQUET_COMPRESSION"},
	"observability.logging.level":  {"LOG_LEVEL"},
	"observability.logging.format": {"LOG_FORMAT"},
	"observability.logging.output": {"LOG_OUTPUT"},
	"application.environment":      {"APP_ENVIRONMENT"},
}

// Loader handles configuration loading and validation
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	for key, names := range envBindings {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	return &Loader{v: v}
}

// Load loads configuration from an optional file and environment variables.
// Missing required settings yield a *errors.ConfigurationError.
func (l *Loader) Load(path string) (*dto.ApplicationConfig, error) {
	// Set defaults
	l.setDefaults()

	// Load from file if provided
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Expand environment variables in config values
	// Only expand if the value contains ${...} pattern
	for _, key := range l.v.AllKeys() {
		value := l.v.GetString(key)
		if strings.Contains(value, "${") {
			l.v.Set(key, os.ExpandEnv(value))
		}
	}

	// Unmarshal configuration
	var config dto.ApplicationConfig
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := l.Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func (l *Loader) setDefaults() {
	// Application defaults
	l.v.SetDefault("application.name", "b3-extractor")
	l.v.SetDefault("application.version", "1.0.0")
	l.v.SetDefault("application.environment", "production")

	// B3 API defaults
	l.v.SetDefault("b3.api_url", "")
	l.v.SetDefault("b3.timeout_seconds", 0)
	l.v.SetDefault("b3.payload.language", "pt-br")
	l.v.SetDefault("b3.payload.index", "IBOV")
	l.v.SetDefault("b3.payload.segment", "1")

	// Storage defaults
	l.v.SetDefault("storage.backend", "s3")
	l.v.SetDefault("storage.bucket", "")
	l.v.SetDefault("storage.key_prefix", "")
	l.v.SetDefault("storage.s3.use_path_style", false)
	l.v.SetDefault("storage.s3.sse_enabled", false)
	l.v.SetDefault("storage.file.base_path", "./data")

	// Parquet defaults
	l.v.SetDefault("parquet.compression", "snappy")

	// Observability defaults
	l.v.SetDefault("observability.logging.level", "info")
	l.v.SetDefault("observability.logging.format", "json")
	l.v.SetDefault("observability.logging.output", "stdout")
}

// Validate validates the configuration
func (l *Loader) Validate(config *dto.ApplicationConfig) error {
	if config.B3.APIURL == "" {
		return missing("B3_API_URL")
	}
	if !strings.HasPrefix(config.B3.APIURL, "http://") && !strings.HasPrefix(config.B3.APIURL, "https://") {
		return invalid("B3_API_URL", fmt.Errorf("unsupported URL scheme: %s", config.B3.APIURL))
	}
	if config.Storage.Bucket == "" {
		return missing("BUCKET_NAME")
	}
	if config.B3.TimeoutSeconds < 0 {
		return invalid("B3_HTTP_TIMEOUT_SECONDS", fmt.Errorf("timeout must not be negative: %d", config.B3.TimeoutSeconds))
	}
	if err := config.B3.Payload.Validate(); err != nil {
		return invalid("b3.payload", err)
	}

	for _, segment := range strings.Split(config.Storage.KeyPrefix, "/") {
		if segment == ".." {
			return invalid("STORAGE_KEY_PREFIX", fmt.Errorf("key prefix must not contain '..': %s", config.Storage.KeyPrefix))
		}
	}

	// Storage validation
	switch config.Storage.Backend {
	case "s3", "gcs":
	case "azure":
		if err := config.Storage.Azure.Validate(); err != nil {
			return invalid("storage.azure", err)
		}
	case "file":
		if err := config.Storage.File.Validate(); err != nil {
			return invalid("FILE_BASE_PATH", err)
		}
	default:
		return invalid("STORAGE_BACKEND", fmt.Errorf("unsupported storage backend: %s", config.Storage.Backend))
	}

	if !encoder.IsSupportedCompression(config.Parquet.Compression) {
		return invalid("PARQUET_COMPRESSION", fmt.Errorf("unsupported compression: %s", config.Parquet.Compression))
	}

	return nil
}

func missing(key string) error {
	return &apperrors.ConfigurationError{Key: key, Err: apperrors.ErrMissingConfig}
}

func invalid(key string, err error) error {
	return &apperrors.ConfigurationError{Key: key, Err: err}
}
