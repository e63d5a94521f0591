package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is a raw score value.
//
// Decoding is lenient: JSON numbers decode as-is, numeric strings are parsed,
// and anything else (null, non-numeric strings) decodes to NaN. NaN and ±Inf
// encode as null because JSON has no representation for them.
type Value float64

// Float returns the value as a float64.
func (v Value) Float() float64 { return float64(v) }

// IsNaN reports whether v is not a number.
func (v Value) IsNaN() bool { return math.IsNaN(float64(v)) }

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Value(math.NaN())
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			f = math.NaN()
		}
		*v = Value(f)
		return nil
	}
	if len(data) > 0 && (data[0] == '{' || data[0] == '[' || data[0] == 't' || data[0] == 'f') {
		*v = Value(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Value(f)
	return nil
}

// String formats the value without trailing zeros.
func (v Value) String() string {
	return FormatNumber(float64(v))
}

// FormatNumber formats f with the shortest representation ("85", "72.5", "NaN").
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
