package storage

import (
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/jittakal/b3extractor/internal/config/dto"
	"github.com/jittakal/b3extractor/pkg/storage"
)

// Supported storage backends.
const (
	BackendS3    = "s3"
	BackendGCS   = "gcs"
	BackendAzure = "azure"
	BackendFile  = "file"
)

var contentTypes = map[string]string{
	".parquet": "application/vnd.apache.parquet",
	".json":    "application/json",
}

// contentTypeFor returns the MIME type for an object key.
func contentTypeFor(key string) string {
	if ct, ok := contentTypes[path.Ext(key)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// NewWriter creates the storage writer for the configured backend.
// An empty backend selects S3.
func NewWriter(ctx context.Context, cfg dto.StorageConfig, logger *zap.Logger) (storage.Writer, error) {
	logger = logger.With(zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case BackendS3, "":
		return NewS3Writer(ctx, S3Config{
			Bucket:       cfg.Bucket,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
			SSEEnabled:   cfg.S3.SSEEnabled,
			SSEKMSKeyID:  cfg.S3.SSEKMSKeyID,
		}, logger)
	case BackendGCS:
		return NewGCSWriter(ctx, GCSConfig{
			Bucket:          cfg.Bucket,
			ProjectID:       cfg.GCS.ProjectID,
			CredentialsFile: cfg.GCS.CredentialsFile,
			Endpoint:        cfg.GCS.Endpoint,
		}, logger)
	case BackendAzure:
		return NewAzureWriter(AzureConfig{
			AccountName:   cfg.Azure.AccountName,
			AccountKey:    cfg.Azure.AccountKey,
			ContainerName: cfg.Bucket,
			Endpoint:      cfg.Azure.Endpoint,
		}, logger)
	case BackendFile:
		return NewFileWriter(FileConfig{
			BasePath: cfg.File.BasePath,
			Bucket:   cfg.Bucket,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
