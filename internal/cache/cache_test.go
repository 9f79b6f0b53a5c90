// internal/cache/cache_test.go
package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestPutGet verifies a basic round trip within the freshness window.
func TestPutGet(t *testing.T) {
	s := New(t.TempDir(), time.Hour)

	if err := s.Put("catalog", []byte(`["a","b"]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	payload, ok := s.Get("catalog")
	if !ok {
		t.Fatal("Get should hit immediately after Put")
	}
	if string(payload) != `["a","b"]` {
		t.Errorf("payload = %s", payload)
	}
}

// TestGetMissing verifies an absent key reads as a miss, not an error.
func TestGetMissing(t *testing.T) {
	s := New(t.TempDir(), time.Hour)
	if _, ok := s.Get("nope"); ok {
		t.Fatal("Get on an absent key should miss")
	}
}

// TestTTLBoundary verifies the freshness window with an injected clock: an
// entry exactly at the TTL boundary reads as expired.
func TestTTLBoundary(t *testing.T) {
	s := New(t.TempDir(), time.Hour)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	if err := s.Put("k", []byte(`{}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	s.now = func() time.Time { return base.Add(time.Hour - time.Second) }
	if _, ok := s.Get("k"); !ok {
		t.Error("entry just inside the TTL should hit")
	}

	s.now = func() time.Time { return base.Add(time.Hour) }
	if _, ok := s.Get("k"); ok {
		t.Error("entry exactly at the TTL should miss")
	}
}

// TestCorruptEntryIsMiss verifies that a garbled cache file degrades to a miss
// instead of surfacing an error.
func TestCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, time.Hour)

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("bad"); ok {
		t.Error("corrupt entry should miss")
	}

	// Valid JSON but missing the envelope fields is equally a miss.
	if err := os.WriteFile(filepath.Join(dir, "empty.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("empty"); ok {
		t.Error("entry without envelope fields should miss")
	}
}

// TestFlush verifies Flush removes all entries and is idempotent.
func TestFlush(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "cache"), time.Hour)

	if err := s.Put("a", []byte(`1`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("b", []byte(`2`)); err != nil {
		t.Fatal(err)
	}

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if _, ok := s.Get("a"); ok {
		t.Error("Get after Flush should miss")
	}
	if err := s.Flush(); err != nil {
		t.Errorf("Flush of an absent cache should be a no-op: %v", err)
	}

	// The store stays usable after a flush.
	if err := s.Put("a", []byte(`3`)); err != nil {
		t.Fatalf("Put after Flush failed: %v", err)
	}
	if _, ok := s.Get("a"); !ok {
		t.Error("Put after Flush should hit")
	}
}

// TestKeySanitization verifies that keys containing path separators or colons
// stay single files inside the cache directory.
func TestKeySanitization(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, time.Hour)

	keys := []string{"tags/llama3", "llama3:8b", `win\path`}
	for _, key := range keys {
		if err := s.Put(key, []byte(`"x"`)); err != nil {
			t.Fatalf("Put(%q) failed: %v", key, err)
		}
		if _, ok := s.Get(key); !ok {
			t.Errorf("Get(%q) should hit", key)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.IsDir() {
			t.Errorf("cache should contain only files, found dir %q", e.Name())
		}
	}
	if len(entries) != len(keys) {
		t.Errorf("expected %d cache files, found %d", len(keys), len(entries))
	}
}

// TestOverwrite verifies Put replaces an existing entry atomically.
func TestOverwrite(t *testing.T) {
	s := New(t.TempDir(), time.Hour)

	if err := s.Put("k", []byte(`"old"`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("k", []byte(`"new"`)); err != nil {
		t.Fatal(err)
	}
	payload, ok := s.Get("k")
	if !ok {
		t.Fatal("Get should hit")
	}
	if string(payload) != `"new"` {
		t.Errorf("payload = %s, want \"new\"", payload)
	}
}
