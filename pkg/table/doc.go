// Package table defines the in-memory tabular model built from B3 API
// responses.
//
// # Values
//
// Value is an explicit tagged value with one of five kinds:
//
//	table.Null()          // KindNull
//	table.Bool(true)      // KindBool
//	table.Int(42)         // KindInt
//	table.Float(3.14)     // KindFloat
//	table.String("IBOV")  // KindString
//
// ParseValue converts a single JSON value. Integral numbers that fit an
// int64 become KindInt, other numbers KindFloat, and nested arrays or
// objects become KindString holding their compact JSON text.
//
// # Records
//
// A Record is an ordered list of named fields, decoded from a JSON object
// with DecodeRecord. Field order follows the source document.
//
// # Tables
//
// FromRecords builds a Table whose columns are the union of all record
// fields in first-seen order. Fields missing from a record are null.
// Each column gets a single kind inferred from its non-null values:
//
//	Int + Float         -> Float
//	any other conflict  -> String (values rendered as JSON text)
//	only nulls          -> String
//
// Values are normalized to their column kind, so every non-null value in a
// column has the same kind.
package table
