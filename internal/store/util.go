package store

import (
	"encoding/json"
	"fmt"
)

// EncodeStrings serializes a string slice into a stable TEXT column value.
// A nil slice encodes the same as an empty one.
func EncodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}

	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode string list: %w", err)
	}

	return string(data), nil
}

// DecodeStrings reverses EncodeStrings. An empty column value decodes to nil.
func DecodeStrings(value string) ([]string, error) {
	if value == "" {
		return nil, nil
	}

	var values []string
	if err := json.Unmarshal([]byte(value), &values); err != nil {
		return nil, fmt.Errorf("failed to decode string list: %w", err)
	}

	if len(values) == 0 {
		return nil, nil
	}

	return values, nil
}
