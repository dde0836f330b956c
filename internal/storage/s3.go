// Package storage implements S3 storage writer.
package storage

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/jittakal/b3extractor/internal/errors"
	"github.com/jittakal/b3extractor/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.Writer = (*S3Writer)(nil)

// S3Config contains AWS S3 configuration.
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	UsePathStyle bool
	SSEEnabled   bool
	SSEKMSKeyID  string
}

// s3Uploader is the subset of manager.Uploader used by S3Writer.
type s3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Writer implements storage.Writer for AWS S3 storage.
// Bodies smaller than the part size go up as a single PutObject; larger ones
// use multipart upload. Server-side encryption is optional.
type S3Writer struct {
	uploader    s3Uploader
	bucket      string
	sseEnabled  bool
	sseKMSKeyID string
	logger      *zap.Logger
	mu          sync.Mutex
	closed      bool
}

// NewS3Writer creates a new S3 storage writer.
func NewS3Writer(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3Writer, error) {
	// Load AWS config
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &errors.StorageError{Operation: "load_config", Path: cfg.Bucket, Err: err}
	}

	// Create S3 client
	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	uploader := manager.NewUploader(s3Client, func(u *manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024 // 10MB parts
		u.Concurrency = 1
	})

	logger.Info("S3 writer created",
		zap.String("bucket", cfg.Bucket),
		zap.String("region", awsConfig.Region),
		zap.String("endpoint", cfg.Endpoint),
		zap.Bool("sse_enabled", cfg.SSEEnabled),
	)

	return newS3Writer(uploader, cfg, logger), nil
}

func newS3Writer(uploader s3Uploader, cfg S3Config, logger *zap.Logger) *S3Writer {
	return &S3Writer{
		uploader:    uploader,
		bucket:      cfg.Bucket,
		sseEnabled:  cfg.SSEEnabled,
		sseKMSKeyID: cfg.SSEKMSKeyID,
		logger:      logger,
	}
}

// Put uploads body to s3://<bucket>/<key>, overwriting any existing object.
func (w *S3Writer) Put(ctx context.Context, key string, body []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return &errors.StorageError{Operation: "put", Path: key, Err: errors.ErrWriterClosed}
	}

	startTime := time.Now()

	// Prepare upload input
	uploadInput := &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentTypeFor(key)),
	}

	// Add SSE if enabled
	if w.sseEnabled {
		if w.sseKMSKeyID != "" {
			uploadInput.ServerSideEncryption = types.ServerSideEncryptionAwsKms
			uploadInput.SSEKMSKeyId = aws.String(w.sseKMSKeyID)
		} else {
			uploadInput.ServerSideEncryption = types.ServerSideEncryptionAes256
		}
	}

	result, err := w.uploader.Upload(ctx, uploadInput)
	if err != nil {
		return &errors.StorageError{Operation: "upload", Path: "s3://" + w.bucket + "/" + key, Err: err}
	}

	w.logger.Info("wrote object to S3",
		zap.String("bucket", w.bucket),
		zap.String("key", key),
		zap.Int("file_size", len(body)),
		zap.String("location", result.Location),
		zap.Int64("total_duration_ms", time.Since(startTime).Milliseconds()),
	)

	return nil
}

// Close closes the S3 writer.
func (w *S3Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	w.logger.Info("closing S3 writer")
	return nil
}
