package kv

import (
	"bytes"
	"errors"
)

// ErrUnavailable is what a Broken memory store returns from every call.
var ErrUnavailable = errors.New("storage unavailable")

// Memory is an in-process Backend. The exported knobs let tests stand in for
// a full, disabled or lossy storage backend.
type Memory struct {
	data map[string][]byte

	Quota  int                       // max total bytes over all keys; 0 means unlimited
	Broken bool                      // every call fails with ErrUnavailable
	Tamper func(value []byte) []byte // applied to values on Set
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(key string) ([]byte, error) {
	if m.Broken {
		return nil, ErrUnavailable
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *Memory) Set(key string, value []byte) error {
	if m.Broken {
		return ErrUnavailable
	}
	if m.Quota > 0 && m.size()-len(m.data[key])+len(value) > m.Quota {
		return ErrQuotaExceeded
	}
	v := bytes.Clone(value)
	if m.Tamper != nil {
		v = m.Tamper(v)
	}
	m.data[key] = v
	return nil
}

func (m *Memory) Delete(key string) error {
	if m.Broken {
		return ErrUnavailable
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) size() int {
	n := 0
	for _, v := range m.data {
		n += len(v)
	}
	return n
}
