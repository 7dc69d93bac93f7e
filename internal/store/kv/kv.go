// Package kv holds the byte stores the bucket list persists into.
// All backends map a string key to an opaque value; they know nothing about JSON.
package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Backend is a key-value byte store.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Open builds the backend named by kind rooted at dataDir.
func Open(kind, dataDir, dbName string) (Backend, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindFile, "":
		return NewDir(dataDir)
	case KindSQLite:
		if err := os.MkdirAll(dataDir, 0o700); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
		return NewSQLite(filepath.Join(dataDir, dbName))
	}
	return nil, fmt.Errorf("unknown backend %q", kind)
}
