// Package staged provides a write-buffering overlay for a KVStore. Handlers
// run against the overlay; on success the buffered writes are committed to
// the base store in one pass, on error they are simply dropped. This gives
// each invocation all-or-nothing semantics over any backing store.
package staged

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/artpar/tokengate/ports"
)

// Store is a ports.KVStore overlay. The zero value is not usable; use New.
type Store struct {
	base ports.KVStore

	mu sync.RWMutex
	// writes holds pending values; nil marks a pending delete.
	writes map[string][]byte
}

// New creates an overlay over base.
func New(base ports.KVStore) *Store {
	return &Store{base: base, writes: make(map[string][]byte)}
}

// Get returns the pending write at key, falling back to the base store.
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	s.mu.RLock()
	v, ok := s.writes[string(key)]
	s.mu.RUnlock()
	if ok {
		if v == nil {
			return nil, nil
		}
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	}
	return s.base.Get(ctx, key)
}

// Set buffers a write.
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	s.mu.Lock()
	s.writes[string(key)] = v
	s.mu.Unlock()
	return nil
}

// Delete buffers a delete.
func (s *Store) Delete(ctx context.Context, key []byte) error {
	s.mu.Lock()
	s.writes[string(key)] = nil
	s.mu.Unlock()
	return nil
}

// Range merges pending writes with the base store and visits keys under
// prefix in ascending byte order. Catalogs are invocation-scoped, so the
// merge materializes the prefixed keyspace rather than streaming it.
func (s *Store) Range(ctx context.Context, prefix, startAfter []byte, limit int, fn func(key, value []byte) error) error {
	merged := make(map[string][]byte)
	err := s.base.Range(ctx, prefix, nil, 0, func(k, v []byte) error {
		val := make([]byte, len(v))
		copy(val, v)
		merged[string(k)] = val
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.RLock()
	for k, v := range s.writes {
		if !bytes.HasPrefix([]byte(k), prefix) {
			continue
		}
		if v == nil {
			delete(merged, k)
		} else {
			merged[k] = v
		}
	}
	s.mu.RUnlock()

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := 0
	for _, k := range keys {
		if startAfter != nil && bytes.Compare([]byte(k), startAfter) <= 0 {
			continue
		}
		if limit > 0 && n >= limit {
			return nil
		}
		if err := fn([]byte(k), merged[k]); err != nil {
			if errors.Is(err, ports.ErrStopRange) {
				return nil
			}
			return err
		}
		n++
	}
	return nil
}

// Commit flushes pending writes to the base store in key order and resets
// the overlay. When the base store supports batched writes the whole flush
// lands atomically; otherwise a mid-flush store error can leave a partial
// commit behind.
func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.writes))
	for k := range s.writes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if bw, ok := s.base.(ports.BatchWriter); ok {
		batch := make([]ports.Write, 0, len(keys))
		for _, k := range keys {
			batch = append(batch, ports.Write{Key: []byte(k), Value: s.writes[k]})
		}
		if err := bw.ApplyBatch(ctx, batch); err != nil {
			return err
		}
		s.writes = make(map[string][]byte)
		return nil
	}

	for _, k := range keys {
		v := s.writes[k]
		if v == nil {
			if err := s.base.Delete(ctx, []byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := s.base.Set(ctx, []byte(k), v); err != nil {
			return err
		}
	}
	s.writes = make(map[string][]byte)
	return nil
}

// Pending returns the number of buffered writes (for testing).
func (s *Store) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.writes)
}

var _ ports.KVStore = (*Store)(nil)
