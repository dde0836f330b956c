// Package validator checks the shape of decoded B3 API responses.
package validator

import (
	"bytes"
	"encoding/json"

	"github.com/jittakal/b3extractor/internal/errors"
)

// ResultsValidator validates the "results" array of a B3 index response.
type ResultsValidator struct{}

// NewResultsValidator creates a new results validator.
func NewResultsValidator() *ResultsValidator {
	return &ResultsValidator{}
}

// Validate requires a non-empty array whose elements are JSON objects.
// An absent, null or empty array yields errors.ErrNoResults.
func (v *ResultsValidator) Validate(results []json.RawMessage) error {
	if len(results) == 0 {
		return errors.ErrNoResults
	}

	for i, raw := range results {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return &errors.ValidationError{
				Field:  "results",
				Index:  i,
				Reason: "element is not a JSON object",
			}
		}
	}

	return nil
}
