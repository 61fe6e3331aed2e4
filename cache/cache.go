// Package cache memoizes per-file summaries across document builds.
//
// Entries are keyed by path, size and modification time, so a file that
// changes on disk misses and is summarized again. Watch mode keeps one
// Cache for its whole lifetime.
package cache

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/arjunmahishi/repoctx/types"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of summaries kept when Size is zero.
const DefaultSize = 4096

// Key identifies one version of a file.
type Key struct {
	Path    string
	Size    int64
	ModTime int64 // UnixNano
}

// NewKey builds a Key from file metadata.
func NewKey(path string, size int64, modTime time.Time) Key {
	return Key{Path: path, Size: size, ModTime: modTime.UnixNano()}
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Len       int   `json:"len"`
}

// Cache is a bounded, concurrency-safe summary cache.
type Cache struct {
	lru    *lru.Cache[Key, types.FileSummary]
	logger *slog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates a cache holding at most size summaries.
func New(size int, logger *slog.Logger) (*Cache, error) {
	if size == 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cache{logger: logger}
	l, err := lru.NewWithEvict(size, func(key Key, _ types.FileSummary) {
		c.evictions.Add(1)
		c.logger.Debug("cache evict", "path", key.Path)
	})
	if err != nil {
		return nil, fmt.Errorf("create summary cache: %w", err)
	}
	c.lru = l
	return c, nil
}

// Get returns the cached summary for key.
func (c *Cache) Get(key Key) (types.FileSummary, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put stores a summary.
func (c *Cache) Put(key Key, summary types.FileSummary) {
	c.lru.Add(key, summary)
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Len:       c.lru.Len(),
	}
}
