// Package assets implements the asset provider: layered read-only sources
// composed behind a byte cache, with in-flight request deduplication and a
// per-fetch timeout.
package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned when no source can serve the requested path.
var ErrNotFound = errors.New("asset not found")

// DefaultTimeout bounds a single asset fetch.
const DefaultTimeout = 15 * time.Second

// Source serves raw asset bytes by tree path.
type Source interface {
	// Read returns the asset at path, or an error wrapping ErrNotFound
	// when the source does not carry it.
	Read(path string) ([]byte, error)
	Close() error
}

// Manager composes asset sources behind a cache.
// Sources are searched in reverse order (last added = highest priority).
type Manager struct {
	mu      sync.RWMutex
	sources []Source

	cache   *Cache
	group   singleflight.Group
	timeout time.Duration
}

// NewManager creates a manager with the given per-fetch timeout.
// A non-positive timeout selects DefaultTimeout.
func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		cache:   NewCache(),
		timeout: timeout,
	}
}

// AddSource appends a source. Later sources take priority.
func (m *Manager) AddSource(s Source) {
	m.mu.Lock()
	m.sources = append(m.sources, s)
	m.mu.Unlock()
}

// AddDir adds a filesystem tree rooted at path.
func (m *Manager) AddDir(path string) error {
	dir, err := NewDir(path)
	if err != nil {
		return err
	}
	m.AddSource(dir)
	return nil
}

// AddPack adds a zip resource pack.
func (m *Manager) AddPack(path string) error {
	pack, err := OpenPack(path)
	if err != nil {
		return err
	}
	m.AddSource(pack)
	return nil
}

// Load fetches an asset by path. Concurrent requests for the same path
// share one underlying read. The caller is released when ctx is done or
// the manager timeout elapses; the read itself still runs to completion
// and populates the cache for later requests.
func (m *Manager) Load(ctx context.Context, path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	ch := m.group.DoChan(path, func() (interface{}, error) {
		data, err := m.lookup(path)
		if err != nil {
			return nil, err
		}
		m.cache.Set(path, data)
		return data, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("fetching %s: %w", path, ctx.Err())
	}
}

// lookup searches sources in reverse order. A source error other than
// ErrNotFound stops the search.
func (m *Manager) lookup(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		data, err := m.sources[i].Read(path)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Reset drops cached bytes. Call between runs when the underlying tree may
// have changed.
func (m *Manager) Reset() {
	m.cache.Clear()
}

// Stats returns cache hit/miss counters.
func (m *Manager) Stats() (hits, misses int64) {
	return m.cache.Stats()
}

// Close closes all sources and drops the cache.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sources {
		s.Close()
	}
	m.sources = nil
	m.cache.Clear()
}

// Cache is an in-memory byte cache keyed by asset path.
type Cache struct {
	mu   sync.RWMutex
	data map[string][]byte

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	data, ok := c.data[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear drops all entries and resets counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.data = make(map[string][]byte)
	c.mu.Unlock()

	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
