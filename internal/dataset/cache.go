package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache serves loaded datasets keyed by base directory. The dataset is
// immutable for the session, so entries live until Clear or Invalidate;
// concurrent loads of the same directory are collapsed into one disk read.
type Cache struct {
	loader *Loader
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]*Dataset
	group   singleflight.Group

	onLoad func(basePath string, fromCache bool, elapsed time.Duration)
}

// NewCache creates a dataset cache around the given loader
func NewCache(loader *Loader, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		loader:  loader,
		logger:  logger.With(slog.String("component", "dataset_cache")),
		entries: make(map[string]*Dataset),
	}
}

// SetLoadObserver registers a callback invoked after every Get, reporting
// whether the dataset came from the cache. Used for metrics.
func (c *Cache) SetLoadObserver(fn func(basePath string, fromCache bool, elapsed time.Duration)) {
	c.onLoad = fn
}

// Get returns the dataset for basePath, loading it on first use. Repeated
// calls with the same base path return the identical in-memory dataset.
func (c *Cache) Get(ctx context.Context, basePath string) (*Dataset, error) {
	start := time.Now()

	c.mu.RLock()
	ds, ok := c.entries[basePath]
	c.mu.RUnlock()
	if ok {
		if c.onLoad != nil {
			c.onLoad(basePath, true, time.Since(start))
		}
		return ds, nil
	}

	v, err, _ := c.group.Do(basePath, func() (interface{}, error) {
		// Another goroutine may have populated the entry while this one
		// waited on the flight group.
		c.mu.RLock()
		cached, exists := c.entries[basePath]
		c.mu.RUnlock()
		if exists {
			return cached, nil
		}

		loaded, err := c.loader.Load(ctx, basePath)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[basePath] = loaded
		c.mu.Unlock()

		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	if c.onLoad != nil {
		c.onLoad(basePath, false, time.Since(start))
	}
	return v.(*Dataset), nil
}

// Invalidate drops the entry for one base path
func (c *Cache) Invalidate(basePath string) {
	c.mu.Lock()
	delete(c.entries, basePath)
	c.mu.Unlock()

	c.logger.Info("dataset cache entry invalidated",
		slog.String("base_path", basePath))
}

// Clear drops all cached datasets
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Dataset)
	c.mu.Unlock()

	c.logger.Info("dataset cache cleared")
}

// CacheEntry describes one cached dataset for health reporting
type CacheEntry struct {
	BasePath    string    `json:"base_path"`
	LoadedAt    time.Time `json:"loaded_at"`
	Expeditions int       `json:"expeditions"`
	Members     int       `json:"members"`
	Peaks       int       `json:"peaks"`
}

// Entries returns a snapshot of the cache contents
func (c *Cache) Entries() []CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]CacheEntry, 0, len(c.entries))
	for base, ds := range c.entries {
		entries = append(entries, CacheEntry{
			BasePath:    base,
			LoadedAt:    ds.LoadedAt,
			Expeditions: ds.Expeditions.RowCount(),
			Members:     ds.Members.RowCount(),
			Peaks:       ds.Peaks.RowCount(),
		})
	}
	return entries
}
