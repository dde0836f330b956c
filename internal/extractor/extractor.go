// Package extractor runs one snapshot extraction: fetch, encode, store.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jittakal/b3extractor/internal/errors"
	"github.com/jittakal/b3extractor/pkg/encoder"
	"github.com/jittakal/b3extractor/pkg/storage"
	"github.com/jittakal/b3extractor/pkg/table"
)

// Fetcher retrieves the current snapshot as a table.
type Fetcher interface {
	Fetch(ctx context.Context) (*table.Table, error)
}

// Body is the JSON document returned to the caller.
type Body struct {
	Message  string `json:"message"`
	Filename string `json:"filename,omitempty"`
}

// Response is the outcome of a run.
type Response struct {
	StatusCode int
	Body       Body
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock overrides the time source used to route the snapshot.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// Extractor wires a fetcher to an encoder and a storage writer.
type Extractor struct {
	fetcher Fetcher
	encoder encoder.Encoder
	router  storage.Router
	writer  storage.Writer
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a new extractor.
func New(
	fetcher Fetcher,
	enc encoder.Encoder,
	router storage.Router,
	writer storage.Writer,
	logger *zap.Logger,
	opts ...Option,
) *Extractor {
	e := &Extractor{
		fetcher: fetcher,
		encoder: enc,
		router:  router,
		writer:  writer,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run performs one extraction.
//
// A fetch failure is reported as a 500 response with a nil error and
// nothing is written. Encode and storage failures are returned as errors.
func (e *Extractor) Run(ctx context.Context) (Response, error) {
	startTime := time.Now()

	tbl, err := e.fetcher.Fetch(ctx)
	if err != nil {
		e.logger.Error("failed to fetch snapshot", zap.Error(err))
		return Response{
			StatusCode: http.StatusInternalServerError,
			Body:       Body{Message: fmt.Sprintf("error fetching data: %v", err)},
		}, nil
	}

	loc := e.router.Route(e.now())

	var buf bytes.Buffer
	stats, err := e.encoder.Encode(&buf, tbl)
	if err != nil {
		return Response{}, &errors.StorageError{Operation: "encode", Path: loc.Key, Err: err}
	}

	if err := e.writer.Put(ctx, loc.Key, buf.Bytes()); err != nil {
		return Response{}, fmt.Errorf("failed to store snapshot: %w", err)
	}

	e.logger.Info("snapshot saved",
		zap.String("key", loc.Key),
		zap.String("filename", loc.Filename),
		zap.String("content_type", e.encoder.ContentType()),
		zap.Int("rows", stats.RowCount),
		zap.Int("columns", stats.ColumnCount),
		zap.Int64("file_size", stats.SizeBytes),
		zap.Int64("total_duration_ms", time.Since(startTime).Milliseconds()),
	)

	return Response{
		StatusCode: http.StatusOK,
		Body: Body{
			Message:  "Data saved successfully",
			Filename: loc.Filename,
		},
	}, nil
}
