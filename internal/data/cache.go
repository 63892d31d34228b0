package data

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"solar-storage-sim/internal/model"
)

// CacheEntry is a parsed series kept in memory.
type CacheEntry struct {
	Records   []model.HourlyRecord
	ExpiresAt time.Time
}

// SeriesCache keeps parsed datasets in memory so repeated API requests over the
// same year of data do not re-read and re-parse the CSV. A nil *SeriesCache is
// valid and caches nothing.
type SeriesCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSeriesCache returns a cache with the given TTL and starts its janitor.
// Callers must Close it.
func NewSeriesCache(ttl time.Duration) *SeriesCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &SeriesCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go c.cleanup(5 * time.Minute)
	return c
}

// Get retrieves a cached series if available and not expired.
func (c *SeriesCache) Get(key string) ([]model.HourlyRecord, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Records, true
}

func (c *SeriesCache) Set(key string, records []model.HourlyRecord) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &CacheEntry{
		Records:   records,
		ExpiresAt: c.now().Add(c.ttl),
	}
}

// GetOrLoad returns the cached series for key, calling load on a miss.
// Failed loads are not cached.
func (c *SeriesCache) GetOrLoad(key string, load func() ([]model.HourlyRecord, error)) ([]model.HourlyRecord, error) {
	if recs, ok := c.Get(key); ok {
		return recs, nil
	}
	recs, err := load()
	if err != nil {
		return nil, err
	}
	c.Set(key, recs)
	return recs, nil
}

func (c *SeriesCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Close stops the janitor goroutine.
func (c *SeriesCache) Close() {
	if c == nil {
		return
	}
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *SeriesCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, key)
		}
	}
}

func (c *SeriesCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

// FileCacheKey keys a parsed file by path, size and modification time, so a
// rewritten file misses the cache.
func FileCacheKey(kind, path string, params ...string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	parts := []string{
		kind,
		path,
		strconv.FormatInt(info.Size(), 10),
		strconv.FormatInt(info.ModTime().UnixNano(), 10),
	}
	return GenerateCacheKey(append(parts, params...)...), nil
}

// GenerateCacheKey hashes the parts that identify a parsed series.
func GenerateCacheKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}
