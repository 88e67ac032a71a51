package cache

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache (
	key       TEXT PRIMARY KEY,
	value     BLOB NOT NULL,
	stored_at INTEGER NOT NULL
);`

// Store is a keyed blob cache backed by SQLite.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open creates or opens the cache database at path. Entries older than
// ttl are treated as absent.
func Open(path string, ttl time.Duration) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Put gob-encodes v and stores it under key, replacing any prior value.
func (s *Store) Put(key string, v interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT INTO cache (key, value, stored_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, stored_at = excluded.stored_at`,
		key, buf.Bytes(), s.now().Unix())
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Get decodes the value stored under key into v. It reports false on a
// miss; expired entries are deleted and count as misses.
func (s *Store) Get(key string, v interface{}) (bool, error) {
	var blob []byte
	var storedAt int64
	err := s.db.QueryRow(`SELECT value, stored_at FROM cache WHERE key = ?`, key).
		Scan(&blob, &storedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read cache entry: %w", err)
	}
	if s.now().Sub(time.Unix(storedAt, 0)) > s.ttl {
		if _, err := s.db.Exec(`DELETE FROM cache WHERE key = ?`, key); err != nil {
			return false, fmt.Errorf("evict cache entry: %w", err)
		}
		return false, nil
	}
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(v); err != nil {
		return false, fmt.Errorf("decode cache value: %w", err)
	}
	return true, nil
}
