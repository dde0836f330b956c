package b3

import (
	"encoding/json"

	"github.com/jittakal/b3extractor/internal/codec"
	"github.com/jittakal/b3extractor/internal/config/dto"
)

// Payload is the request document sent to the B3 API.
// Field order is fixed by the struct layout.
type Payload struct {
	Language string `json:"language"`
	Index    string `json:"index"`
	Segment  string `json:"segment"`
}

// DefaultPayload requests the Ibovespa composition in Portuguese.
func DefaultPayload() Payload {
	return Payload{Language: "pt-br", Index: "IBOV", Segment: "1"}
}

// PayloadFromConfig builds a payload, falling back to the defaults for
// empty fields.
func PayloadFromConfig(cfg dto.PayloadConfig) Payload {
	p := DefaultPayload()
	if cfg.Language != "" {
		p.Language = cfg.Language
	}
	if cfg.Index != "" {
		p.Index = cfg.Index
	}
	if cfg.Segment != "" {
		p.Segment = cfg.Segment
	}
	return p
}

// JSON returns the compact JSON text of the payload.
func (p Payload) JSON() string {
	// Marshalling a struct of strings cannot fail.
	b, _ := json.Marshal(p)
	return string(b)
}

// Encoded returns the base64 form appended to the API URL.
func (p Payload) Encoded() string {
	return codec.Encode(p.JSON())
}
