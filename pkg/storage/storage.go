// Package storage defines interfaces for snapshot storage operations.
//
// This package provides abstractions for writing encoded snapshots to
// object storage backends (S3, GCS, Azure Blob, local filesystem).
package storage

import (
	"context"
	"time"
)

// Writer puts whole objects into storage.
type Writer interface {
	// Put writes body to key, replacing any existing object.
	Put(ctx context.Context, key string, body []byte) error

	// Close closes the writer and releases resources.
	Close() error
}

// Location identifies where a snapshot taken at a given time is stored.
type Location struct {
	// Date is the UTC calendar date, formatted YYYY-MM-DD.
	Date string
	// Filename is the object base name, b3_<Date>.parquet.
	Filename string
	// Key is the full object key, [prefix/]date=<Date>/<Filename>.
	Key string
}

// Router determines storage locations for snapshots.
type Router interface {
	// Route returns the location for a snapshot taken at t.
	Route(t time.Time) Location
}
