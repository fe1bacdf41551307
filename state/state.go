package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/artpar/tokengate/ports"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("not found")

// Item is a typed singleton stored under a fixed key, JSON-encoded.
type Item[T any] struct {
	key []byte
}

// NewItem creates an Item under key.
func NewItem[T any](key []byte) Item[T] {
	return Item[T]{key: key}
}

// Load reads the item; ErrNotFound if it was never saved.
func (i Item[T]) Load(ctx context.Context, s ports.KVStore) (T, error) {
	var v T
	raw, err := s.Get(ctx, i.key)
	if err != nil {
		return v, err
	}
	if raw == nil {
		return v, ErrNotFound
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %q: %w", i.key, err)
	}
	return v, nil
}

// Save writes the item.
func (i Item[T]) Save(ctx context.Context, s ports.KVStore, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", i.key, err)
	}
	return s.Set(ctx, i.key, raw)
}

// Exists reports whether the item was saved.
func (i Item[T]) Exists(ctx context.Context, s ports.KVStore) (bool, error) {
	raw, err := s.Get(ctx, i.key)
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}

// Map is a typed map under a key prefix, JSON-encoded values, keys ordered
// byte-lexicographically.
type Map[T any] struct {
	prefix []byte
}

// NewMap creates a Map under prefix.
func NewMap[T any](prefix []byte) Map[T] {
	return Map[T]{prefix: prefix}
}

func (m Map[T]) storageKey(key string) []byte {
	k := make([]byte, 0, len(m.prefix)+len(key))
	k = append(k, m.prefix...)
	return append(k, key...)
}

// Get reads the value at key; ErrNotFound if absent.
func (m Map[T]) Get(ctx context.Context, s ports.KVStore, key string) (T, error) {
	var v T
	raw, err := s.Get(ctx, m.storageKey(key))
	if err != nil {
		return v, err
	}
	if raw == nil {
		return v, ErrNotFound
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode %q: %w", key, err)
	}
	return v, nil
}

// Has reports whether key is present.
func (m Map[T]) Has(ctx context.Context, s ports.KVStore, key string) (bool, error) {
	raw, err := s.Get(ctx, m.storageKey(key))
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}

// Set writes the value at key.
func (m Map[T]) Set(ctx context.Context, s ports.KVStore, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.Set(ctx, m.storageKey(key), raw)
}

// Delete removes key. Deleting an absent key is not an error.
func (m Map[T]) Delete(ctx context.Context, s ports.KVStore, key string) error {
	return s.Delete(ctx, m.storageKey(key))
}

// Walk visits entries in ascending key order, strictly after startAfter when
// non-empty, at most limit entries (0 = unlimited). fn may return
// ports.ErrStopRange to finish early.
func (m Map[T]) Walk(ctx context.Context, s ports.KVStore, startAfter string, limit int, fn func(key string, v T) error) error {
	var after []byte
	if startAfter != "" {
		after = m.storageKey(startAfter)
	}
	return s.Range(ctx, m.prefix, after, limit, func(k, raw []byte) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %q: %w", k, err)
		}
		return fn(string(k[len(m.prefix):]), v)
	})
}
