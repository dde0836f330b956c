// Package encoder defines interfaces for encoding tables to file formats.
package encoder

import (
	"io"

	"github.com/jittakal/b3extractor/pkg/table"
)

// Stats describes one encoded file.
type Stats struct {
	RowCount    int
	ColumnCount int
	SizeBytes   int64
}

// Encoder encodes a table to a specific file format.
type Encoder interface {
	// Encode writes the table to w and returns file statistics.
	Encode(w io.Writer, t *table.Table) (*Stats, error)

	// FileExtension returns the file extension (e.g., ".parquet").
	FileExtension() string

	// ContentType returns the MIME type of the encoded output.
	ContentType() string
}
