package cachemanager

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kdeal/misc/internal/log"
)

type fileEntry[V any] struct {
	Value     V         `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// File is a Manager persisted as a JSON file, so entries survive
// between invocations. V must round-trip through encoding/json.
type File[K ~string, V any] struct {
	path string

	mu      sync.Mutex
	entries map[K]fileEntry[V]
}

// NewFile loads the cache at path, dropping entries that expired while
// the file sat on disk. A missing file starts an empty cache.
func NewFile[K ~string, V any](path string) (*File[K, V], error) {
	f := &File[K, V]{
		path:    path,
		entries: make(map[K]fileEntry[V]),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache file: %w", err)
	}
	if err := json.Unmarshal(data, &f.entries); err != nil {
		// A corrupt cache is not worth failing over. Start fresh.
		log.Warn(log.CatCache, "discarding unreadable cache file", "path", path, "error", err)
		f.entries = make(map[K]fileEntry[V])
		return f, nil
	}

	now := time.Now()
	for key, entry := range f.entries {
		if now.After(entry.ExpiresAt) {
			delete(f.entries, key)
		}
	}
	return f, nil
}

func (c *File[K, V]) Get(ctx context.Context, key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.entries[key]
	if !found || time.Now().After(entry.ExpiresAt) {
		var zero V
		return zero, false
	}

	log.Debug(log.CatCache, "cache hit", "path", c.path, "key", key)
	return entry.Value, true
}

func (c *File[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	value, found := c.Get(ctx, key)
	if !found {
		return value, false
	}

	c.Set(ctx, key, value, ttl)
	return value, true
}

func (c *File[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = fileEntry[V]{Value: value, ExpiresAt: time.Now().Add(ttl)}
	c.persistLocked()
}

func (c *File[K, V]) Delete(ctx context.Context, keys ...K) error {
	if len(keys) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
	}
	c.persistLocked()
	return nil
}

func (c *File[K, V]) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]fileEntry[V])
	c.persistLocked()
	return nil
}

// persistLocked writes the cache to disk. Failures are logged, not
// returned: the in-memory state is still good for this run.
func (c *File[K, V]) persistLocked() {
	data, err := json.Marshal(c.entries)
	if err != nil {
		log.ErrorErr(log.CatCache, "marshaling cache file", err, "path", c.path)
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		log.ErrorErr(log.CatCache, "creating cache directory", err, "path", c.path)
		return
	}

	tempPath := c.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		log.ErrorErr(log.CatCache, "writing cache temp file", err, "path", c.path)
		return
	}
	if err := os.Rename(tempPath, c.path); err != nil {
		_ = os.Remove(tempPath)
		log.ErrorErr(log.CatCache, "replacing cache file", err, "path", c.path)
	}
}
