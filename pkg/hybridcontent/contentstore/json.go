package contentstore

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON wraps a structured column value. It serialises V to JSON text on
// write and parses it back on read. A NULL column scans to the zero value.
type JSON[T any] struct {
	V T
}

// JSONOf wraps v for use as a statement argument.
func JSONOf[T any](v T) JSON[T] {
	return JSON[T]{V: v}
}

// Value implements driver.Valuer.
func (j JSON[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(j.V)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (j *JSON[T]) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		var zero T
		j.V = zero
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrMalformedJSON, src)
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	j.V = out
	return nil
}

// MarshalJSON encodes the wrapped value.
func (j JSON[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.V)
}

// UnmarshalJSON decodes into the wrapped value.
func (j *JSON[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &j.V)
}

// EmptyList returns v, or a non-nil empty slice when v is nil, so omitted
// list columns are stored as [] rather than null.
func EmptyList[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
