// Package encoder provides table encoding to Parquet.
//
// ParquetEncoder converts a table.Table into a Parquet file written to any
// io.Writer, so a snapshot can be encoded straight into memory:
//
//	enc := encoder.NewParquetEncoder("snappy", "b3-extractor")
//
//	var buf bytes.Buffer
//	stats, err := enc.Encode(&buf, tbl)
//	if err != nil {
//	    return err
//	}
//
// # Schema
//
// The schema is derived from the table at encode time. Every column becomes
// an optional leaf so missing fields are stored as nulls:
//
//	table.KindString -> BYTE_ARRAY (UTF8)
//	table.KindInt    -> INT64
//	table.KindFloat  -> DOUBLE
//	table.KindBool   -> BOOLEAN
//
// # Compression Options
//
// Supported compression codecs:
//
//	"snappy" (default), "gzip", "lz4", "zstd", "uncompressed"
//
// Unknown names fall back to Snappy.
package encoder
