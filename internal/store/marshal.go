package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// marshalDoc encodes a collection document as compact JSON.
// HTML escaping is disabled so names like "R&D" are stored verbatim.
func marshalDoc(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// unmarshalDoc decodes a collection document. An empty or missing document
// leaves v untouched.
func unmarshalDoc(data []byte, v any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return nil
}
