package texture

import "sync"

// Cache memoizes decoded textures by asset path. Failures are cached too,
// so a broken texture is decoded (and fails) once per run.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	pix  *Pixels
	err  error
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// Load returns the decoded texture for path. The fetch callback supplies
// the raw bytes and runs at most once per path, even under concurrent
// callers.
func (c *Cache) Load(path string, fetch func() ([]byte, error)) (*Pixels, error) {
	c.mu.Lock()
	e, ok := c.entries[path]
	if !ok {
		e = &cacheEntry{}
		c.entries[path] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		data, err := fetch()
		if err != nil {
			e.err = err
			return
		}
		e.pix, e.err = Decode(data)
	})

	return e.pix, e.err
}
