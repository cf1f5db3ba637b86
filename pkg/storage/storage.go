// Package storage provides the keyed JSON document store backing the goal
// collections. Each key maps to a single <key>.json file inside one data
// directory. Writes are atomic (temp file then rename) and capped by a
// per-document quota, standing in for the capacity ceiling of the browser
// profile store this layout mirrors.
package storage

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultQuota is the per-document size ceiling in bytes.
const DefaultQuota int64 = 5 << 20

var (
	// ErrNotExist reports a read of a key with no stored document.
	ErrNotExist = errors.New("storage: key does not exist")
	// ErrQuotaExceeded reports a write larger than the document quota.
	ErrQuotaExceeded = errors.New("storage: document quota exceeded")
)

// Storage is one handle on a data directory. Multiple processes may hold
// handles on the same directory; the last writer wins.
type Storage struct {
	dir   string
	quota int64

	mu   sync.Mutex
	last map[string][32]byte // key -> hash of this handle's most recent write
}

// New opens a handle on dir, creating it if needed. A quota of zero or less
// selects DefaultQuota.
func New(dir string, quota int64) (*Storage, error) {
	if quota <= 0 {
		quota = DefaultQuota
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Storage{
		dir:   dir,
		quota: quota,
		last:  make(map[string][32]byte),
	}, nil
}

// Dir returns the data directory this handle is rooted at.
func (s *Storage) Dir() string {
	return s.dir
}

// Path returns the file path backing the given key.
func (s *Storage) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Read returns the document stored under key. A missing document is
// reported as ErrNotExist.
func (s *Storage) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

// Write stores data under key. The document appears atomically: it is
// written to a temp file in the same directory, then renamed into place, so
// a concurrent reader never sees a torn document.
func (s *Storage) Write(key string, data []byte) error {
	if int64(len(data)) > s.quota {
		return fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrQuotaExceeded, key, len(data), s.quota)
	}

	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}

	s.mu.Lock()
	s.last[key] = sha256.Sum256(data)
	s.mu.Unlock()
	return nil
}

// Remove deletes the document under key. A missing document is not an error.
func (s *Storage) Remove(key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// WroteRecently reports whether data matches the most recent write to key
// made through this handle. The change watcher uses it to tell this
// process's own writes apart from another process's: the original browser
// storage event fires only in other tabs, and this preserves that shape.
func (s *Storage) WroteRecently(key string, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.last[key]
	if !ok {
		return false
	}
	return h == sha256.Sum256(data)
}
