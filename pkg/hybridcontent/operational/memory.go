package operational

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Record
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Record)}
}

// LoadMemoryStore creates a store seeded from a JSON file shaped as
// {"collection": [{"id": "...", ...}, ...]}.
func LoadMemoryStore(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read operational seed: %w", err)
	}
	var seed map[string][]Record
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse operational seed %s: %w", path, err)
	}

	s := NewMemoryStore()
	for collection, records := range seed {
		for _, rec := range records {
			s.Insert(collection, rec)
		}
	}
	return s, nil
}

// Insert stores rec, assigning a random id when it has none, and returns
// the id.
func (s *MemoryStore) Insert(collection string, rec Record) string {
	rec = cloneRecord(rec)
	id := rec.ID()
	if id == "" {
		id = uuid.NewString()
		rec["id"] = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		c = make(map[string]Record)
		s.collections[collection] = c
	}
	c[id] = rec
	return id
}

// Remove deletes a record. It reports whether the record existed.
func (s *MemoryStore) Remove(collection, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return false
	}
	delete(s.collections[collection], id)
	return true
}

func (s *MemoryStore) GetByID(ctx context.Context, collection, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, &AdapterError{Collection: collection, Op: "get", ID: id, Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return cloneRecord(rec), nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filters []Filter, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, &AdapterError{Collection: collection, Op: "query", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.collections[collection]))
	for id := range s.collections[collection] {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, strings.Compare)

	out := []Record{}
	for _, id := range ids {
		rec := s.collections[collection][id]
		ok, err := Matches(rec, filters)
		if err != nil {
			return nil, &AdapterError{Collection: collection, Op: "query", Err: err}
		}
		if !ok {
			continue
		}
		out = append(out, cloneRecord(rec))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func cloneRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(cloneRecord(t))
	case Record:
		return cloneRecord(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
