package encoder

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/jittakal/b3extractor/internal/errors"
	"github.com/jittakal/b3extractor/pkg/encoder"
	"github.com/jittakal/b3extractor/pkg/table"
)

// Ensure implementation satisfies interface at compile time.
var _ encoder.Encoder = (*ParquetEncoder)(nil)

// SchemaName is the root name of generated Parquet schemas.
const SchemaName = "b3_index_snapshot"

// ParquetEncoder implements encoder.Encoder for Apache Parquet columnar format.
// The schema is built per table from its inferred column kinds.
type ParquetEncoder struct {
	compressionName string
	createdBy       string
}

// NewParquetEncoder creates a new Parquet encoder with specified compression.
// createdBy is recorded as the writing application in file metadata.
func NewParquetEncoder(compression, createdBy string) *ParquetEncoder {
	if createdBy == "" {
		createdBy = "b3-extractor"
	}
	return &ParquetEncoder{
		compressionName: compression,
		createdBy:       createdBy,
	}
}

// compressionCodec converts string compression name to parquet WriterOption.
func compressionCodec(compression string) parquet.WriterOption {
	switch strings.ToLower(compression) {
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "lz4":
		return parquet.Compression(&parquet.Lz4Raw)
	case "zstd":
		return parquet.Compression(&parquet.Zstd)
	case "uncompressed", "none":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Snappy) // Default to Snappy
	}
}

// SupportedCompressions returns the accepted compression codec names.
func SupportedCompressions() []string {
	return []string{"uncompressed", "none", "snappy", "gzip", "lz4", "zstd"}
}

// IsSupportedCompression reports whether name is an accepted codec. The empty
// name selects the default.
func IsSupportedCompression(name string) bool {
	if name == "" {
		return true
	}
	for _, c := range SupportedCompressions() {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// SchemaOf builds the Parquet schema for a table: one optional leaf per
// column, in table column order.
func SchemaOf(t *table.Table) *parquet.Schema {
	columns := t.Columns()
	group := &orderedGroup{fields: make([]parquet.Field, len(columns))}
	for i, col := range columns {
		group.fields[i] = &orderedField{
			Node: parquet.Optional(leafOf(col.Kind)),
			name: col.Name,
		}
	}
	return parquet.NewSchema(SchemaName, group)
}

// orderedGroup is a group node whose fields keep insertion order.
// parquet.Group sorts its fields by name.
type orderedGroup struct {
	parquet.Group
	fields []parquet.Field
}

func (g *orderedGroup) Fields() []parquet.Field { return g.fields }

func (g *orderedGroup) String() string {
	var sb strings.Builder
	_ = parquet.PrintSchema(&sb, "", g)
	return sb.String()
}

// GoType returns a map type: column names need not be valid Go identifiers.
func (g *orderedGroup) GoType() reflect.Type {
	return reflect.TypeOf(map[string]any(nil))
}

type orderedField struct {
	parquet.Node
	name string
}

func (f *orderedField) Name() string { return f.name }

func (f *orderedField) Value(base reflect.Value) reflect.Value {
	if base.Kind() == reflect.Interface {
		if base.IsNil() {
			return reflect.ValueOf(nil)
		}
		base = base.Elem()
	}
	if base.Kind() != reflect.Map || base.IsNil() {
		return reflect.ValueOf(nil)
	}
	return base.MapIndex(reflect.ValueOf(f.name))
}

func leafOf(kind table.Kind) parquet.Node {
	switch kind {
	case table.KindInt:
		return parquet.Leaf(parquet.Int64Type)
	case table.KindFloat:
		return parquet.Leaf(parquet.DoubleType)
	case table.KindBool:
		return parquet.Leaf(parquet.BooleanType)
	default:
		return parquet.String()
	}
}

// Encode writes the table to w as a single Parquet file.
func (e *ParquetEncoder) Encode(w io.Writer, t *table.Table) (*encoder.Stats, error) {
	if t == nil || t.NumRows() == 0 {
		return nil, errors.ErrEmptyTable
	}

	schema := SchemaOf(t)

	// Map each table column to its leaf index.
	columns := t.Columns()
	leafIndex := make([]int, len(columns))
	for i, col := range columns {
		leaf, ok := schema.Lookup(col.Name)
		if !ok {
			return nil, fmt.Errorf("column %q missing from schema", col.Name)
		}
		leafIndex[i] = leaf.ColumnIndex
	}

	rows := make([]parquet.Row, t.NumRows())
	for r := range rows {
		cells := t.Row(r)
		row := make(parquet.Row, len(columns))
		for c, v := range cells {
			row[leafIndex[c]] = parquetValue(v, leafIndex[c])
		}
		rows[r] = row
	}

	counter := &countingWriter{w: w}
	writer := parquet.NewWriter(
		counter,
		schema,
		compressionCodec(e.compressionName),
		parquet.CreatedBy(e.createdBy, "1.0", "0"),
	)

	if _, err := writer.WriteRows(rows); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write rows: %w", err)
	}

	// Flush and close writer
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	return &encoder.Stats{
		RowCount:    t.NumRows(),
		ColumnCount: t.NumColumns(),
		SizeBytes:   counter.n,
	}, nil
}

// parquetValue converts a cell to a leaf value of an optional column.
func parquetValue(v table.Value, columnIndex int) parquet.Value {
	var pv parquet.Value
	switch v.Kind() {
	case table.KindNull:
		return parquet.NullValue().Level(0, 0, columnIndex)
	case table.KindBool:
		pv = parquet.BooleanValue(v.AsBool())
	case table.KindInt:
		pv = parquet.Int64Value(v.AsInt())
	case table.KindFloat:
		pv = parquet.DoubleValue(v.AsFloat())
	default:
		pv = parquet.ByteArrayValue([]byte(v.AsString()))
	}
	return pv.Level(0, 1, columnIndex)
}

// FileExtension returns the file extension.
func (e *ParquetEncoder) FileExtension() string {
	return ".parquet"
}

// ContentType returns the MIME type registered for Parquet.
func (e *ParquetEncoder) ContentType() string {
	return "application/vnd.apache.parquet"
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
