package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// JSON arrays over a verified key-value adapter. One key per collection,
// human-readable, whole-collection rewrite on every save.

// ErrNotPersisted means the adapter could not durably store the value.
var ErrNotPersisted = errors.New("write not persisted")

// Adapter is the subset of safe.Adapter the codec needs.
type Adapter interface {
	Read(key string) ([]byte, bool)
	Write(key string, value []byte) bool
}

// Load decodes the array stored under key. A missing or empty value is an
// empty slice, not an error.
func Load[T any](a Adapter, key string) ([]T, error) {
	b, ok := a.Read(key)
	if !ok || len(b) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return []T{}, fmt.Errorf("json unmarshal %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save writes items under key.
func Save[T any](a Adapter, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal %s: %w", key, err)
	}
	if !a.Write(key, b) {
		return fmt.Errorf("save %s: %w", key, ErrNotPersisted)
	}
	return nil
}
