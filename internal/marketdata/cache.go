package marketdata

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cache provides simple file-based caching for provider responses. Price
// history for a closed window never changes, so caching avoids refetching
// the same (ticker, window) across runs.
type Cache struct {
	cacheDir string
	ttl      time.Duration
	mu       sync.RWMutex
}

// NewCache creates a cache rooted at cacheDir. A zero TTL disables expiry.
func NewCache(cacheDir string, ttl time.Duration) *Cache {
	if cacheDir == "" {
		cacheDir = "cache/marketdata"
	}
	os.MkdirAll(cacheDir, 0o755)
	return &Cache{cacheDir: cacheDir, ttl: ttl}
}

// Get retrieves a cached response, if present and fresh.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.filePath(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		os.Remove(path)
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a response under key.
func (c *Cache) Set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.WriteFile(c.filePath(key), data, 0o644)
}

func (c *Cache) filePath(key string) string {
	return filepath.Join(c.cacheDir, fmt.Sprintf("%x.json", md5.Sum([]byte(key))))
}
