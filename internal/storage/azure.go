// Package storage implements Azure Blob storage writer.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"go.uber.org/zap"

	"github.com/jittakal/b3extractor/internal/errors"
	"github.com/jittakal/b3extractor/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.Writer = (*AzureWriter)(nil)

// AzureConfig contains Azure Blob Storage configuration.
type AzureConfig struct {
	AccountName   string
	AccountKey    string
	ContainerName string
	Endpoint      string
}

// ConnectionString builds the shared key connection string for the account.
// A custom endpoint (e.g. Azurite) replaces the public endpoint suffix.
func (c AzureConfig) ConnectionString() string {
	if c.Endpoint != "" {
		return fmt.Sprintf("DefaultEndpointsProtocol=https;AccountName=%s;AccountKey=%s;BlobEndpoint=%s",
			c.AccountName, c.AccountKey, c.Endpoint)
	}
	return fmt.Sprintf("DefaultEndpointsProtocol=https;AccountName=%s;AccountKey=%s;EndpointSuffix=core.windows.net",
		c.AccountName, c.AccountKey)
}

// blobUploader is the subset of azblob.Client used by AzureWriter.
type blobUploader interface {
	UploadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

// AzureWriter implements storage.Writer for Azure Blob Storage using
// access key authentication.
type AzureWriter struct {
	client        blobUploader
	containerName string
	logger        *zap.Logger
	mu            sync.Mutex
	closed        bool
}

// NewAzureWriter creates a new Azure Blob storage writer.
func NewAzureWriter(cfg AzureConfig, logger *zap.Logger) (*AzureWriter, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString(), nil)
	if err != nil {
		return nil, &errors.StorageError{Operation: "new_client", Path: cfg.ContainerName, Err: err}
	}

	logger.Info("Azure writer created",
		zap.String("container", cfg.ContainerName),
		zap.String("account", cfg.AccountName),
	)

	return newAzureWriter(client, cfg.ContainerName, logger), nil
}

func newAzureWriter(client blobUploader, containerName string, logger *zap.Logger) *AzureWriter {
	return &AzureWriter{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}
}

// Put uploads body as a block blob, replacing any existing blob.
func (w *AzureWriter) Put(ctx context.Context, key string, body []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := w.containerName + "/" + key
	if w.closed {
		return &errors.StorageError{Operation: "put", Path: path, Err: errors.ErrWriterClosed}
	}

	startTime := time.Now()
	contentType := contentTypeFor(key)

	_, err := w.client.UploadBuffer(ctx, w.containerName, key, body, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return &errors.StorageError{Operation: "upload", Path: path, Err: err}
	}

	w.logger.Info("wrote object to Azure Blob",
		zap.String("container", w.containerName),
		zap.String("blob", key),
		zap.Int("file_size", len(body)),
		zap.Int64("total_duration_ms", time.Since(startTime).Milliseconds()),
	)

	return nil
}

// Close closes the Azure writer.
func (w *AzureWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	w.logger.Info("Azure writer closed")
	return nil
}
