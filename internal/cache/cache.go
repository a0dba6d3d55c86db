// Package cache persists audio analysis results keyed by content hash,
// so rescanning a library only pays for new or changed files.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// DefaultMaxEntries bounds the cache when no limit is configured.
const DefaultMaxEntries = 10000

// Entry is a cached analysis result. Pointer fields distinguish
// "not determined" from zero values.
type Entry struct {
	Bitrate    *int    `json:"bitrate"`
	IsLossless *bool   `json:"is_lossless"`
	Note       *string `json:"note"`
}

// Cache is an in-memory map of file hashes to analysis results, backed
// by a JSON file. Safe for concurrent use.
type Cache struct {
	path  string
	limit int

	mu      sync.Mutex
	entries map[string]Entry
}

// Load reads the cache file at path. A missing or corrupt file yields
// an empty cache rather than an error, so a damaged cache never blocks
// a scan. limit <= 0 means DefaultMaxEntries.
func Load(path string, limit int) *Cache {
	if limit <= 0 {
		limit = DefaultMaxEntries
	}
	c := &Cache{
		path:    path,
		limit:   limit,
		entries: make(map[string]Entry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]Entry)
		return c
	}
	c.enforceLimit()
	return c
}

// Get returns the cached entry for a hash.
func (c *Cache) Get(hash string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[hash]
	return e, ok
}

// Put stores an entry, evicting arbitrary entries if the cache is over
// its limit.
func (c *Cache) Put(hash string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hash] = e
	c.enforceLimit()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Save writes the cache atomically to its backing file, creating the
// parent directory if needed.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}

// enforceLimit drops arbitrary entries until the cache fits. Callers
// must hold mu (Load runs before the cache is shared).
func (c *Cache) enforceLimit() {
	for hash := range c.entries {
		if len(c.entries) <= c.limit {
			break
		}
		delete(c.entries, hash)
	}
}

// FileHash returns the hex SHA-256 of a file's contents.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DefaultPath returns the cache file location, honoring the
// KESON_CACHE_DIR override.
func DefaultPath() (string, error) {
	if dir := os.Getenv("KESON_CACHE_DIR"); dir != "" {
		return filepath.Join(dir, "analysis-cache.json"), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache directory: %w", err)
	}
	return filepath.Join(base, "keson", "analysis-cache.json"), nil
}
