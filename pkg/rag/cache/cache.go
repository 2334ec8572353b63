package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"ai-docchat-be/pkg/store"
)

const (
	DefaultTTL      = 300 * time.Second
	DefaultCapacity = 100
)

type entry struct {
	result    store.PipelineResult
	createdAt time.Time
}

// ResultCache maps a normalized (query, search mode) pair to a previously
// computed pipeline result. Entries expire after a TTL and the cache is
// bounded: inserting past capacity evicts the entry with the oldest creation
// timestamp. Eviction is by insertion time, not access time; an old entry
// that is read constantly still goes first. Callers depend on this ordering.
type ResultCache struct {
	mu       sync.Mutex
	entries  map[string]entry
	ttl      time.Duration
	capacity int

	hits   int64
	misses int64

	now func() time.Time
}

func New(ttl time.Duration, capacity int) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ResultCache{
		entries:  make(map[string]entry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// key folds case and whitespace so "What is X?" and " what is x? " share an
// entry. md5 is fine here; the key is not security-sensitive.
func key(query string, mode store.SearchMode) string {
	content := strings.ToLower(strings.TrimSpace(query)) + "_" + string(mode)
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached result for (query, mode) if present and fresh.
// An expired entry is treated as absent and purged on the spot.
func (c *ResultCache) Lookup(query string, mode store.SearchMode) (*store.PipelineResult, bool) {
	k := key(query, mode)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.now().Sub(e.createdAt) >= c.ttl {
		delete(c.entries, k)
		c.misses++
		return nil, false
	}

	c.hits++
	res := e.result
	res.Cached = true
	return &res, true
}

// Store caches a pipeline result. Failure results are the caller's problem to
// filter out; both answered and "no results" successes belong here.
func (c *ResultCache) Store(query string, mode store.SearchMode, result *store.PipelineResult) {
	if result == nil {
		return
	}
	k := key(query, mode)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[k]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}

	c.entries[k] = entry{
		result:    *result,
		createdAt: c.now(),
	}
}

func (c *ResultCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range c.entries {
		if first || e.createdAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.createdAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Clear drops every entry. Counters are kept.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

type Stats struct {
	Count    int     `json:"total_items"`
	Capacity int     `json:"max_size"`
	HitRate  float64 `json:"hit_rate"`
}

func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Count:    len(c.entries),
		Capacity: c.capacity,
		HitRate:  rate,
	}
}
