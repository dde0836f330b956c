// Package storage implements Google Cloud Storage writer.
package storage

import (
	"context"
	"io"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jittakal/b3extractor/internal/errors"
	pkgstorage "github.com/jittakal/b3extractor/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ pkgstorage.Writer = (*GCSWriter)(nil)

// GCSConfig contains Google Cloud Storage configuration.
type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
	Endpoint        string
}

// objectOpener opens a writer for a single object. Closing it commits the
// object.
type objectOpener func(ctx context.Context, bucket, object, contentType string) io.WriteCloser

// GCSWriter implements storage.Writer for Google Cloud Storage.
// Credentials come from a service account file when configured, otherwise
// from Application Default Credentials.
type GCSWriter struct {
	client *storage.Client
	open   objectOpener
	bucket string
	logger *zap.Logger
	mu     sync.Mutex
	closed bool
}

// NewGCSWriter creates a new Google Cloud Storage writer.
func NewGCSWriter(ctx context.Context, cfg GCSConfig, logger *zap.Logger) (*GCSWriter, error) {
	clientOpts := gcsClientOptions(cfg)
	if cfg.CredentialsFile != "" {
		logger.Info("using GCP credentials from file", zap.String("file", cfg.CredentialsFile))
	} else {
		logger.Info("no explicit credentials provided, using default GCP credentials")
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, &errors.StorageError{Operation: "new_client", Path: cfg.Bucket, Err: err}
	}

	logger.Info("GCS writer created",
		zap.String("bucket", cfg.Bucket),
		zap.String("project_id", cfg.ProjectID),
	)

	w := newGCSWriter(clientOpener(client), cfg.Bucket, logger)
	w.client = client
	return w, nil
}

// gcsClientOptions maps configuration to client options. ProjectID is
// billed as the quota project; object writes do not otherwise need it.
func gcsClientOptions(cfg GCSConfig) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(cfg.ProjectID))
	}
	return opts
}

func clientOpener(client *storage.Client) objectOpener {
	return func(ctx context.Context, bucket, object, contentType string) io.WriteCloser {
		ow := client.Bucket(bucket).Object(object).NewWriter(ctx)
		ow.ContentType = contentType
		return ow
	}
}

func newGCSWriter(open objectOpener, bucket string, logger *zap.Logger) *GCSWriter {
	return &GCSWriter{
		open:   open,
		bucket: bucket,
		logger: logger,
	}
}

// Put writes body to gs://<bucket>/<key>, replacing any existing object.
func (w *GCSWriter) Put(ctx context.Context, key string, body []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := "gs://" + w.bucket + "/" + key
	if w.closed {
		return &errors.StorageError{Operation: "put", Path: path, Err: errors.ErrWriterClosed}
	}

	startTime := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ow := w.open(ctx, w.bucket, key, contentTypeFor(key))
	if _, err := ow.Write(body); err != nil {
		// Cancelling the context aborts the upload before it is committed.
		cancel()
		ow.Close()
		return &errors.StorageError{Operation: "upload", Path: path, Err: err}
	}

	// Close the writer to finalize the upload
	if err := ow.Close(); err != nil {
		return &errors.StorageError{Operation: "close", Path: path, Err: err}
	}

	w.logger.Info("wrote object to GCS",
		zap.String("bucket", w.bucket),
		zap.String("object", key),
		zap.Int("file_size", len(body)),
		zap.Int64("total_duration_ms", time.Since(startTime).Milliseconds()),
	)

	return nil
}

// Close closes the GCS writer.
func (w *GCSWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.logger.Info("closing GCS writer")
	if w.client != nil {
		return w.client.Close()
	}
	return nil
}
