// Package handler adapts the extractor to the Lambda invocation contract.
package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/jittakal/b3extractor/internal/extractor"
)

// Response is the payload returned to the Lambda runtime.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Runner performs one extraction.
type Runner interface {
	Run(ctx context.Context) (extractor.Response, error)
}

// BuildFunc constructs the request-scoped runner. The returned cleanup
// releases its clients and may be nil.
type BuildFunc func(ctx context.Context) (Runner, func() error, error)

// Handler serves scheduled invocations.
type Handler struct {
	build  BuildFunc
	logger *zap.Logger
}

// New creates a new handler.
func New(build BuildFunc, logger *zap.Logger) *Handler {
	return &Handler{
		build:  build,
		logger: logger,
	}
}

// Handle runs one extraction per event. Configuration and storage failures
// are returned as errors so the runtime records a failed invocation.
func (h *Handler) Handle(ctx context.Context, event events.CloudWatchEvent) (Response, error) {
	h.logger.Debug("received event",
		zap.String("id", event.ID),
		zap.String("source", event.Source),
		zap.String("detail_type", event.DetailType),
		zap.Time("time", event.Time),
	)

	runner, cleanup, err := h.build(ctx)
	if err != nil {
		return Response{}, err
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				h.logger.Warn("cleanup failed", zap.Error(err))
			}
		}()
	}

	result, err := runner.Run(ctx)
	if err != nil {
		h.logger.Error("extraction failed", zap.Error(err))
		return Response{}, err
	}

	body, err := json.Marshal(result.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal response body: %w", err)
	}

	return Response{
		StatusCode: result.StatusCode,
		Body:       string(body),
	}, nil
}
