package b3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/jittakal/b3extractor/internal/errors"
	"github.com/jittakal/b3extractor/internal/validator"
	"github.com/jittakal/b3extractor/pkg/table"
)

// maxBodySnippet bounds how much of an error response is kept.
const maxBodySnippet = 256

// Config contains B3 client configuration.
type Config struct {
	// BaseURL is the API prefix the encoded payload is appended to.
	BaseURL string
	Payload Payload
	// Timeout of zero leaves the HTTP client default in place.
	Timeout time.Duration
}

// response is the envelope returned by the portfolio endpoint.
type response struct {
	Results []json.RawMessage `json:"results"`
}

// Client fetches index snapshots over HTTP.
type Client struct {
	http      *resty.Client
	url       string
	validator *validator.ResultsValidator
	logger    *zap.Logger
}

// NewClient creates a new B3 API client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	client := resty.New()
	client.SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	instrument(client, logger)

	return &Client{
		http:      client,
		url:       cfg.BaseURL + cfg.Payload.Encoded(),
		validator: validator.NewResultsValidator(),
		logger:    logger,
	}
}

// URL returns the full request URL.
func (c *Client) URL() string {
	return c.url
}

// Fetch issues a single GET and converts the results into a table.
// Every failure is returned as a *errors.FetchError.
func (c *Client) Fetch(ctx context.Context) (*table.Table, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return nil, &errors.FetchError{Op: "request", Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &errors.FetchError{
			Op:         "status",
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected response %q: %s", resp.Status(), snippet(resp.Body())),
		}
	}

	var body response
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &errors.FetchError{Op: "decode", StatusCode: resp.StatusCode(), Err: err}
	}

	if err := c.validator.Validate(body.Results); err != nil {
		return nil, &errors.FetchError{Op: "validate", StatusCode: resp.StatusCode(), Err: err}
	}

	records := make([]table.Record, len(body.Results))
	for i, raw := range body.Results {
		rec, err := table.DecodeRecord(raw)
		if err != nil {
			return nil, &errors.FetchError{Op: "decode", StatusCode: resp.StatusCode(), Err: fmt.Errorf("result %d: %w", i, err)}
		}
		records[i] = rec
	}

	t := table.FromRecords(records)
	c.logger.Info("fetched index snapshot",
		zap.Int("rows", t.NumRows()),
		zap.Int("columns", t.NumColumns()),
	)

	return t, nil
}

func snippet(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > maxBodySnippet {
		return string(body[:maxBodySnippet]) + "..."
	}
	return string(body)
}

// instrument logs each request outcome.
func instrument(client *resty.Client, logger *zap.Logger) {
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("B3 API response",
			zap.String("method", resp.Request.Method),
			zap.Int("status", resp.StatusCode()),
			zap.Int("body_size", len(resp.Body())),
			zap.Duration("elapsed", resp.Time()),
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		logger.Warn("B3 API request failed",
			zap.String("method", req.Method),
			zap.Error(err),
		)
	})
}
