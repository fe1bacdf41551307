// Package memory provides in-memory implementations for testing and local
// sandbox runs.
package memory

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/artpar/tokengate/ports"
)

// KVStore is an in-memory implementation of ports.KVStore.
type KVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewKVStore creates a new in-memory key-value store.
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string][]byte)}
}

// Get returns the value at key, or nil if absent.
func (s *KVStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[string(key)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores value at key.
func (s *KVStore) Set(ctx context.Context, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.data[string(key)] = v
	return nil
}

// Delete removes key.
func (s *KVStore) Delete(ctx context.Context, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, string(key))
	return nil
}

// Range visits keys under prefix in ascending byte order.
func (s *KVStore) Range(ctx context.Context, prefix, startAfter []byte, limit int, fn func(key, value []byte) error) error {
	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()
	sort.Strings(keys)

	n := 0
	for _, k := range keys {
		if startAfter != nil && bytes.Compare([]byte(k), startAfter) <= 0 {
			continue
		}
		if limit > 0 && n >= limit {
			return nil
		}
		s.mu.RLock()
		v := s.data[k]
		s.mu.RUnlock()
		if err := fn([]byte(k), v); err != nil {
			if errors.Is(err, ports.ErrStopRange) {
				return nil
			}
			return err
		}
		n++
	}
	return nil
}

// ApplyBatch applies all writes under a single lock.
func (s *KVStore) ApplyBatch(ctx context.Context, writes []ports.Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if w.Value == nil {
			delete(s.data, string(w.Key))
			continue
		}
		v := make([]byte, len(w.Value))
		copy(v, w.Value)
		s.data[string(w.Key)] = v
	}
	return nil
}

var (
	_ ports.KVStore     = (*KVStore)(nil)
	_ ports.BatchWriter = (*KVStore)(nil)
)
