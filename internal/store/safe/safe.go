// Package safe wraps a kv.Backend so that writes are verified by reading them
// back and no storage failure ever escapes as an error.
package safe

import (
	"bytes"
	"errors"
	"log"

	"github.com/Makepad-fr/bucket/internal/store/kv"
)

const (
	healthKey   = "__storage_test__"
	healthValue = "test"
)

// Adapter is the one persistence gateway shared by every store in a process.
type Adapter struct {
	backend kv.Backend
	log     *log.Logger
}

// New wraps b. A nil logger logs through log.Default().
func New(b kv.Backend, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Default()
	}
	return &Adapter{backend: b, log: logger}
}

// Write stores value under key and reads it back. It returns true only when
// the read-back matches. Failures are logged, never returned.
func (a *Adapter) Write(key string, value []byte) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Printf("safe: write %q panicked: %v", key, r)
			ok = false
		}
	}()
	if err := a.backend.Set(key, value); err != nil {
		a.log.Printf("safe: write %q failed: %v", key, err)
		return false
	}
	got, err := a.backend.Get(key)
	if err != nil || !bytes.Equal(got, value) {
		a.log.Printf("safe: verification failed for key %q", key)
		return false
	}
	return true
}

// Read returns the value under key. ok is false when the key is missing or
// the backend fails.
func (a *Adapter) Read(key string) (value []byte, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Printf("safe: read %q panicked: %v", key, r)
			value, ok = nil, false
		}
	}()
	v, err := a.backend.Get(key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			a.log.Printf("safe: read %q failed: %v", key, err)
		}
		return nil, false
	}
	return v, true
}

// HealthCheck round-trips a sentinel value and removes it again.
func (a *Adapter) HealthCheck() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
		if ok {
			a.log.Print("safe: storage health check OK")
		} else {
			a.log.Print("safe: storage health check FAILED")
		}
	}()
	if err := a.backend.Set(healthKey, []byte(healthValue)); err != nil {
		return false
	}
	got, err := a.backend.Get(healthKey)
	ok = err == nil && string(got) == healthValue
	if err := a.backend.Delete(healthKey); err != nil {
		a.log.Printf("safe: remove health key: %v", err)
	}
	return ok
}
