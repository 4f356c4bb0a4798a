// Package codec provides the JSON encoder/decoder used to decode request
// bodies and encode response envelopes.
package codec

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"
)

// Codec converts values to and from their wire representation.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Sonic is a [Codec] backed by bytedance/sonic configured for
// encoding/json compatible output.
type Sonic struct {
	api sonic.API
}

// NewSonic returns a Sonic codec using sonic.ConfigStd.
func NewSonic() *Sonic {
	return &Sonic{api: sonic.ConfigStd}
}

// Default returns the codec used when none is configured.
func Default() Codec {
	return NewSonic()
}

func (s *Sonic) Marshal(v any) ([]byte, error) {
	data, err := s.api.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error encoding json: %w", err)
	}
	return data, nil
}

func (s *Sonic) Unmarshal(data []byte, v any) error {
	if err := s.api.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error decoding json: %w", err)
	}
	return nil
}

// LooksLikeJSON reports whether content is framed as a JSON object or array.
// It does not validate the content.
func LooksLikeJSON(content []byte) bool {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) < 2 {
		return false
	}
	first, last := trimmed[0], trimmed[len(trimmed)-1]
	return (first == '{' && last == '}') || (first == '[' && last == ']')
}
