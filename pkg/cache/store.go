package cache

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a persistent key-value interface for serialized prediction
// series. Implementations must make writes atomic: a reader never observes
// a partially written entry.
type Store interface {
	// Get returns the value and the time it was stored. ok is false when
	// the key is absent.
	Get(ctx context.Context, key string) (value []byte, storedAt time.Time, ok bool, err error)
	// Put stores value under key, replacing any previous entry.
	Put(ctx context.Context, key string, value []byte, storedAt time.Time) error
}

// SQLite is a Store backed by a single sqlite database file, typically on a
// mounted volume so entries survive process restarts. Row replacement is
// transactional, which satisfies the atomic-replace requirement.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	stored_at INTEGER NOT NULL
);`

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, time.Time, bool, error) {
	var value []byte
	var storedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, stored_at FROM predictions WHERE key = ?`, key).
		Scan(&value, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, err
	}
	return value, time.Unix(storedAt, 0), true, nil
}

func (s *SQLite) Put(ctx context.Context, key string, value []byte, storedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO predictions (key, value, stored_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, stored_at = excluded.stored_at`,
		key, value, storedAt.Unix())
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Memory is a Store held entirely in process memory. It backs tests and
// deployments that configure no cache path.
type Memory struct {
	mu sync.Mutex
	m  map[string]memoryEntry
}

type memoryEntry struct {
	value    []byte
	storedAt time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{m: make(map[string]memoryEntry)}
}

func (s *Memory) Get(_ context.Context, key string) ([]byte, time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[key]
	if !ok {
		return nil, time.Time{}, false, nil
	}
	return e.value, e.storedAt, true, nil
}

func (s *Memory) Put(_ context.Context, key string, value []byte, storedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = memoryEntry{value: value, storedAt: storedAt}
	return nil
}
