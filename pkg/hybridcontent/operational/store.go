// Package operational adapts the external store that owns live restaurants
// and menus. Records are schemaless documents addressed by collection and id.
package operational

import (
	"context"
	"errors"
	"fmt"
)

// Collections used by the resolver.
const (
	CollectionRestaurants    = "restaurants"
	CollectionMenuCategories = "menuCategories"
	CollectionMenuItems      = "menuItems"
)

// Record is one operational document. The id is held under the "id" field.
type Record map[string]any

// ID returns the record id, or "" when absent.
func (r Record) ID() string {
	s, _ := r["id"].(string)
	return s
}

// String returns a string field, or "" when absent or of another type.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Filter operators.
const (
	OpEqual         = "=="
	OpNotEqual      = "!="
	OpIn            = "in"
	OpArrayContains = "array-contains"
	OpGreater       = ">"
	OpGreaterEqual  = ">="
	OpLess          = "<"
	OpLessEqual     = "<="
)

// Filter is one field predicate. Filters passed together are ANDed.
type Filter struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

// Where builds a Filter.
func Where(field, op string, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Store is the operational store contract.
type Store interface {
	// GetByID returns the record or nil when it does not exist.
	GetByID(ctx context.Context, collection, id string) (Record, error)
	// Query returns up to limit matching records. A non-positive limit is
	// unbounded.
	Query(ctx context.Context, collection string, filters []Filter, limit int) ([]Record, error)
}

// ErrUnsupportedFilter indicates a filter operator the store cannot evaluate.
var ErrUnsupportedFilter = errors.New("unsupported filter operator")

// AdapterError reports a failed or timed out operational store call.
type AdapterError struct {
	Collection string
	Op         string
	ID         string
	Err        error
}

func (e *AdapterError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("operational store %s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
	}
	return fmt.Sprintf("operational store %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// IsAdapterError reports whether err is or wraps an AdapterError.
func IsAdapterError(err error) bool {
	var ae *AdapterError
	return errors.As(err, &ae)
}
