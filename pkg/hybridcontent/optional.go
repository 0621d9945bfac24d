package hybridcontent

import (
	"bytes"
	"encoding/json"
)

// Optional holds a value that may or may not have been supplied.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional that is set to v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// IsSet reports whether a value was supplied.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Get returns the value and whether it was supplied.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// OrElse returns the value when set, otherwise fallback.
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// UnmarshalJSON marks the Optional as set. encoding/json only calls it when
// the key is present, so an absent key stays unset.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.value = zero
		return nil
	}
	return json.Unmarshal(data, &o.value)
}

// MarshalJSON encodes the value, or null when unset.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
