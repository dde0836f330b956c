// Package storage implements storage-related functionality.
package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/jittakal/b3extractor/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.Router = (*DateRouter)(nil)

// DateLayout is the partition date format.
const DateLayout = "2006-01-02"

// DateRouter implements Hive-style daily partitioning for snapshot keys.
type DateRouter struct {
	prefix    string
	extension string
}

// NewRouter creates a new storage router. prefix may be empty; extension
// includes the leading dot.
func NewRouter(prefix, extension string) *DateRouter {
	return &DateRouter{
		prefix:    strings.Trim(prefix, "/"),
		extension: extension,
	}
}

// Route returns the storage location for a snapshot taken at t.
// Format: [prefix/]date=YYYY-MM-DD/b3_YYYY-MM-DD.parquet
// Both dates come from the same UTC instant.
func (r *DateRouter) Route(t time.Time) storage.Location {
	date := t.UTC().Format(DateLayout)
	filename := fmt.Sprintf("b3_%s%s", date, r.extension)

	key := path.Join("date="+date, filename)
	if r.prefix != "" {
		key = path.Join(r.prefix, key)
	}

	return storage.Location{
		Date:     date,
		Filename: filename,
		Key:      key,
	}
}
