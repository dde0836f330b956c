package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a scalar cell value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v, or false.
func (v Value) AsBool() bool { return v.b }

// AsInt returns the integer held by v, or 0.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the number held by v. Integers are widened.
func (v Value) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// AsString returns the string held by v, or "".
func (v Value) AsString() string { return v.s }

// Text renders the value as JSON scalar text without quoting strings.
// Null renders as "".
func (v Value) Text() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return ""
	}
}

// Coerce converts v to kind k. Null stays null. Only Int -> Float widening
// and any -> String rendering are supported; other conversions return v
// unchanged.
func (v Value) Coerce(k Kind) Value {
	if v.kind == KindNull || v.kind == k {
		return v
	}
	switch k {
	case KindFloat:
		if v.kind == KindInt {
			return Float(float64(v.i))
		}
	case KindString:
		return String(v.Text())
	}
	return v
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == KindNull {
		return "null"
	}
	if v.kind == KindString {
		return strconv.Quote(v.s)
	}
	return v.Text()
}

// ParseValue converts one JSON value into a Value.
func ParseValue(raw json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Value{}, fmt.Errorf("empty JSON value")
	}

	switch trimmed[0] {
	case 'n':
		if string(trimmed) != "null" {
			return Value{}, fmt.Errorf("invalid JSON value %q", trimmed)
		}
		return Null(), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return Value{}, fmt.Errorf("invalid JSON boolean: %w", err)
		}
		return Bool(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Value{}, fmt.Errorf("invalid JSON string: %w", err)
		}
		return String(s), nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return Value{}, fmt.Errorf("invalid nested JSON: %w", err)
		}
		return String(buf.String()), nil
	default:
		n := json.Number(trimmed)
		if i, err := n.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid JSON number %q: %w", trimmed, err)
		}
		return Float(f), nil
	}
}
