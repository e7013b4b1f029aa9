// Package jsonutil provides shared helpers for decoding backend JSON:
// contextual error wrapping and shape detection.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// UnmarshalArrayAllowEmpty unmarshals JSON data into a slice.
// Empty arrays and null both yield an empty (nil) slice.
func UnmarshalArrayAllowEmpty[T any](data []byte, context string) ([]T, error) {
	var entries []T
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if err := UnmarshalWithContext(data, &entries, context); err != nil {
		return nil, err
	}
	return entries, nil
}

// IsObject reports whether data is a JSON object.
func IsObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

// HasKeys reports whether data is a JSON object containing every key.
// Values are not inspected; a key mapped to null still counts.
func HasKeys(data []byte, keys ...string) bool {
	if !IsObject(data) {
		return false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return false
	}
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}
