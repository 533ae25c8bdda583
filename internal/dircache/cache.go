package dircache

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Cache maps a directory to its filtered children. Every mutation is
// written through to the Store before returning.
type Cache struct {
	mu      sync.RWMutex
	store   Store
	entries map[string][]string
	log     *zap.Logger
}

// New loads the cache from store. Load failures leave the cache empty and
// are only logged.
func New(store Store, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	entries, err := store.Load()
	if err != nil {
		log.Debug("dircache load failed, starting empty", zap.Error(err))
		entries = nil
	}
	if entries == nil {
		entries = map[string][]string{}
	}
	log.Debug("dircache loaded", zap.Int("dirs", len(entries)))
	return &Cache{store: store, entries: entries, log: log}
}

// Get returns the cached children of dir without touching the filesystem
func (c *Cache) Get(dir string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	children, ok := c.entries[filepath.Clean(dir)]
	if !ok {
		return nil, false
	}
	return slices.Clone(children), true
}

// Insert replaces the entry for dir and persists the whole map
func (c *Cache) Insert(dir string, children []string) error {
	c.mu.Lock()
	c.entries[filepath.Clean(dir)] = slices.Clone(children)
	snapshot := cloneEntries(c.entries)
	c.mu.Unlock()

	if err := c.store.Save(snapshot); err != nil {
		c.log.Debug("dircache save failed", zap.Error(err), zap.String("dir", dir))
		return fmt.Errorf("failed to persist directory cache: %w", err)
	}
	return nil
}

// Invalidate clears every entry and persists the empty map
func (c *Cache) Invalidate() error {
	c.mu.Lock()
	c.entries = map[string][]string{}
	c.mu.Unlock()

	if err := c.store.Save(map[string][]string{}); err != nil {
		c.log.Debug("dircache save failed", zap.Error(err))
		return fmt.Errorf("failed to persist directory cache: %w", err)
	}
	return nil
}

// Len returns the number of cached directories
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
