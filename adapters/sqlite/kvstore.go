package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/artpar/tokengate/ports"
)

// KVStore implements ports.KVStore over a namespaced SQLite table. Separate
// namespaces let several engine instances share one database file without
// key collisions.
type KVStore struct {
	db *DB
	ns string
}

// NewKVStore creates a store bound to namespace ns.
func NewKVStore(db *DB, ns string) *KVStore {
	return &KVStore{db: db, ns: ns}
}

// Get returns the value at key, or nil if absent.
func (s *KVStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT v FROM kv WHERE ns = ? AND k = ?`, s.ns, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	return v, nil
}

// Set stores value at key.
func (s *KVStore) Set(ctx context.Context, key, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (ns, k, v) VALUES (?, ?, ?)
		ON CONFLICT (ns, k) DO UPDATE SET v = excluded.v
	`, s.ns, key, value)
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *KVStore) Delete(ctx context.Context, key []byte) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE ns = ? AND k = ?`, s.ns, key)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// ApplyBatch applies all writes in a single transaction.
func (s *KVStore) ApplyBatch(ctx context.Context, writes []ports.Write) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	for _, w := range writes {
		if w.Value == nil {
			_, err = tx.ExecContext(ctx,
				`DELETE FROM kv WHERE ns = ? AND k = ?`, s.ns, w.Key)
		} else {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO kv (ns, k, v) VALUES (?, ?, ?)
				ON CONFLICT (ns, k) DO UPDATE SET v = excluded.v
			`, s.ns, w.Key, w.Value)
		}
		if err != nil {
			return fmt.Errorf("batch write: %w", err)
		}
	}
	return tx.Commit()
}

// Range visits keys under prefix in ascending byte order.
func (s *KVStore) Range(ctx context.Context, prefix, startAfter []byte, limit int, fn func(key, value []byte) error) error {
	lower := prefix
	if startAfter != nil {
		lower = startAfter
	}

	query := `SELECT k, v FROM kv WHERE ns = ? AND k > ?`
	args := []any{s.ns, lower}
	if startAfter == nil {
		// inclusive lower bound when starting from the prefix itself
		query = `SELECT k, v FROM kv WHERE ns = ? AND k >= ?`
	}
	if upper := prefixEnd(prefix); upper != nil {
		query += ` AND k < ?`
		args = append(args, upper)
	}
	query += ` ORDER BY k ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("range: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		if err := fn(k, v); err != nil {
			if errors.Is(err, ports.ErrStopRange) {
				return nil
			}
			return err
		}
	}
	return rows.Err()
}

// prefixEnd returns the smallest key greater than every key with the given
// prefix, or nil when no such bound exists.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

var (
	_ ports.KVStore     = (*KVStore)(nil)
	_ ports.BatchWriter = (*KVStore)(nil)
)
