// Package codec implements the reversible text encoding used to embed
// request payloads in B3 API URL paths.
package codec

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// Encode returns the standard, padded base64 encoding of the UTF-8 bytes of text.
func Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Decode reverses Encode. It fails on malformed base64 input and on decoded
// bytes that are not valid UTF-8.
func Decode(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 text: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("decoded text is not valid UTF-8")
	}
	return string(raw), nil
}
