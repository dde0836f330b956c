package table

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject is returned by DecodeRecord when the input is not a JSON object.
var ErrNotObject = errors.New("JSON value is not an object")

// Field is a named value within a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is one source row: an ordered list of fields with unique names.
type Record []Field

// Get returns the value of the named field.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Set replaces the named field in place or appends it.
func (r Record) Set(name string, v Value) Record {
	for i := range r {
		if r[i].Name == name {
			r[i].Value = v
			return r
		}
	}
	return append(r, Field{Name: name, Value: v})
}

// DecodeRecord parses a JSON object into a Record, keeping the key order of
// the document. A repeated key keeps its first position and its last value.
func DecodeRecord(raw json.RawMessage) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	rec := Record{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read field name: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", keyTok)
		}

		var rawValue json.RawMessage
		if err := dec.Decode(&rawValue); err != nil {
			return nil, fmt.Errorf("failed to read field %q: %w", name, err)
		}
		v, err := ParseValue(rawValue)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		rec = rec.Set(name, v)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read record end: %w", err)
	}
	return rec, nil
}
