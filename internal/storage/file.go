// Package storage implements storage writer implementations.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jittakal/b3extractor/internal/errors"
	"github.com/jittakal/b3extractor/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.Writer = (*FileWriter)(nil)

// FileConfig contains local filesystem configuration.
type FileConfig struct {
	BasePath string
	Bucket   string
}

// FileWriter implements storage.Writer for local filesystem storage.
// Objects are stored at <base_path>/<bucket>/<key> and replaced atomically
// through a temporary file and rename.
type FileWriter struct {
	root   string
	logger *zap.Logger
	mu     sync.Mutex
	closed bool
}

// NewFileWriter creates a new filesystem storage writer.
func NewFileWriter(config FileConfig, logger *zap.Logger) (*FileWriter, error) {
	root := filepath.Join(config.BasePath, config.Bucket)

	// Ensure base path exists
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, &errors.StorageError{Operation: "mkdir", Path: root, Err: err}
	}

	logger.Info("filesystem writer created", zap.String("root", root))

	return &FileWriter{
		root:   root,
		logger: logger,
	}, nil
}

// Put writes body to <root>/<key>, replacing any existing file.
func (w *FileWriter) Put(ctx context.Context, key string, body []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return &errors.StorageError{Operation: "put", Path: key, Err: errors.ErrWriterClosed}
	}
	if err := ctx.Err(); err != nil {
		return &errors.StorageError{Operation: "put", Path: key, Err: err}
	}

	startTime := time.Now()
	fullPath, err := w.resolve(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(fullPath)

	// Ensure directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &errors.StorageError{Operation: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(fullPath)+"-*")
	if err != nil {
		return &errors.StorageError{Operation: "create", Path: fullPath, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &errors.StorageError{Operation: "write", Path: fullPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &errors.StorageError{Operation: "write", Path: fullPath, Err: err}
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return &errors.StorageError{Operation: "rename", Path: fullPath, Err: err}
	}

	w.logger.Info("wrote object to file",
		zap.String("path", fullPath),
		zap.Int("file_size", len(body)),
		zap.Int64("total_duration_ms", time.Since(startTime).Milliseconds()),
	)

	return nil
}

// resolve maps key to a path under the writer root.
func (w *FileWriter) resolve(key string) (string, error) {
	fullPath := w.Path(key)
	if !strings.HasPrefix(fullPath, w.root+string(filepath.Separator)) {
		return "", &errors.StorageError{Operation: "put", Path: key, Err: errors.ErrInvalidKey}
	}
	return fullPath, nil
}

// Path returns the filesystem path an object key maps to.
func (w *FileWriter) Path(key string) string {
	return filepath.Join(w.root, filepath.FromSlash(key))
}

// Close closes the writer.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	w.logger.Info("closing filesystem writer")
	return nil
}
