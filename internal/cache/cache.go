// internal/cache/cache.go
// Package cache provides time-boxed key-value persistence for scraped registry
// data. The cache is an optimization, never a source of truth: corrupt or
// unreadable entries degrade to misses and a bad file never blocks the
// application.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// entry is the on-disk envelope for one cached payload.
type entry struct {
	FetchedAt time.Time       `json:"fetchedAt"`
	Payload   json.RawMessage `json:"payload"`
}

// Store is a directory-backed cache with a fixed freshness window.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// New returns a Store rooted at dir. Entries older than ttl read as absent.
func New(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl, now: time.Now}
}

// Get returns the cached payload for key, or ok=false when the entry is
// missing, older than the freshness window, or unreadable. It never fails:
// every degraded condition is a miss.
func (s *Store) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	if e.FetchedAt.IsZero() || len(e.Payload) == 0 {
		return nil, false
	}
	if s.now().Sub(e.FetchedAt) >= s.ttl {
		return nil, false
	}
	return e.Payload, true
}

// Put stores payload under key, stamped with the current time. The write is
// atomic with respect to concurrent readers: temp file then rename, so a
// reader observes either the prior or the new entry, never a partial one.
func (s *Store) Put(key string, payload []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(entry{FetchedAt: s.now(), Payload: payload})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+sanitizeKey(key)+"-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

// Flush removes every entry unconditionally. Flushing an absent cache is a
// no-op.
func (s *Store) Flush() error {
	return os.RemoveAll(s.dir)
}

// path maps a key to its cache file.
func (s *Store) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

// sanitizeKey flattens key separators so per-model keys like "tags/llama3" or
// names containing ":" stay single files inside the cache dir.
func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", ":", "_", "\\", "_")
	return r.Replace(key)
}
