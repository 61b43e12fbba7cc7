// Package tablecache reuses loaded analytics tables across callers.
//
// An entry is served while it is younger than the TTL and the source file's
// modification time and size are unchanged. Concurrent misses for one path
// share a single rebuild; readers of a built entry only take a read lock.
package tablecache

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"episodestats/internal/loadmetrics"
	"episodestats/internal/logging"
	"episodestats/internal/pipeline"
)

// Loader builds a fresh result for a path.
type Loader interface {
	Load(ctx context.Context, path string) (*pipeline.Result, error)
}

type entry struct {
	result   *pipeline.Result
	modTime  time.Time
	size     int64
	storedAt time.Time
}

// Cache provides thread-safe, TTL-bounded reuse of pipeline results.
type Cache struct {
	loader  Loader
	ttl     time.Duration
	logger  *slog.Logger
	metrics *loadmetrics.Recorder
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
	flight  singleflight.Group
}

// Option customizes a Cache.
type Option func(*Cache)

// WithMetrics counts hits and misses on rec.
func WithMetrics(rec *loadmetrics.Recorder) Option {
	return func(c *Cache) { c.metrics = rec }
}

// WithClock overrides the time source used for TTL checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a cache in front of loader. A ttl of zero or less disables
// reuse but still collapses concurrent loads of the same path.
func New(loader Loader, ttl time.Duration, logger *slog.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Cache{
		loader:  loader,
		ttl:     ttl,
		logger:  logging.NewComponentLogger(logger, "tablecache"),
		now:     time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a cached result for path or loads a new one.
func (c *Cache) Get(ctx context.Context, path string) (*pipeline.Result, error) {
	key := cacheKey(path)

	if cached, ok := c.lookup(key); ok && c.fresh(key, cached) {
		c.metrics.CacheHit()
		c.logger.Debug("table cache hit", logging.SourcePath(key))
		return cached.result, nil
	}
	c.metrics.CacheMiss()

	value, err, shared := c.flight.Do(key, func() (any, error) {
		// A flight that finished while this caller was queued may have
		// stored a fresh entry already.
		if e, ok := c.lookup(key); ok && c.fresh(key, e) {
			return e.result, nil
		}
		info, statErr := os.Stat(key)
		res, err := c.loader.Load(ctx, path)
		if err != nil {
			c.Invalidate(path)
			return nil, err
		}
		if statErr == nil && c.ttl > 0 {
			c.mu.Lock()
			c.entries[key] = entry{result: res, modTime: info.ModTime(), size: info.Size(), storedAt: c.now()}
			c.mu.Unlock()
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("table rebuild shared", logging.SourcePath(key))
	}
	return value.(*pipeline.Result), nil
}

func (c *Cache) lookup(key string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) fresh(key string, e entry) bool {
	if c.ttl <= 0 || c.now().Sub(e.storedAt) >= c.ttl {
		return false
	}
	info, err := os.Stat(key)
	if err != nil {
		return false
	}
	return info.ModTime().Equal(e.modTime) && info.Size() == e.size
}

// Invalidate drops the entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, cacheKey(path))
	c.mu.Unlock()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len reports the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
