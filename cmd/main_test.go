package main

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jittakal/b3extractor/internal/b3"
	"github.com/jittakal/b3extractor/internal/errors"
	"github.com/jittakal/b3extractor/internal/handler"
)

// setFileBackendEnv points the build function at a local upstream and a
// temporary file store.
func setFileBackendEnv(t *testing.T, apiURL string) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("B3_API_URL", apiURL)
	t.Setenv("BUCKET_NAME", "bkt")
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("FILE_BASE_PATH", base)
	for _, name := range []string{"STORAGE_KEY_PREFIX", "PARQUET_COMPRESSION", "B3_HTTP_TIMEOUT_SECONDS", "B3_INDEX", "B3_LANGUAGE", "B3_SEGMENT"} {
		t.Setenv(name, "")
	}
	return base
}

func TestBuildFunc_FileBackend(t *testing.T) {
	requested := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case requested <- r.URL.Path:
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"cod":"PETR4","part":7.1},{"cod":"VALE3","part":11.2}]}`))
	}))
	defer srv.Close()

	base := setFileBackendEnv(t, srv.URL+"/x/")

	h := handler.New(newBuildFunc("", zap.NewNop()), zap.NewNop())
	resp, err := h.Handle(context.Background(), events.CloudWatchEvent{Source: "aws.events"})
	require.NoError(t, err)

	assert.Equal(t, "/x/"+b3.DefaultPayload().Encoded(), <-requested)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Message  string `json:"message"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "Data saved successfully", body.Message)
	require.Regexp(t, `^b3_\d{4}-\d{2}-\d{2}\.parquet$`, body.Filename)

	date := body.Filename[3:13]
	path := filepath.Join(base, "bkt", "date="+date, body.Filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.EqualValues(t, 2, file.NumRows())
}

func TestBuildFunc_UpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	base := setFileBackendEnv(t, srv.URL+"/x/")

	h := handler.New(newBuildFunc("", zap.NewNop()), zap.NewNop())
	resp, err := h.Handle(context.Background(), events.CloudWatchEvent{})
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body, "error fetching data")

	entries, err := os.ReadDir(filepath.Join(base, "bkt"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildFunc_MissingBucket(t *testing.T) {
	setFileBackendEnv(t, "https://example.com/x/")
	t.Setenv("BUCKET_NAME", "")

	_, _, err := newBuildFunc("", zap.NewNop())(context.Background())

	var cfgErr *errors.ConfigurationError
	require.True(t, stderrors.As(err, &cfgErr))
	assert.Equal(t, "BUCKET_NAME", cfgErr.Key)
}
