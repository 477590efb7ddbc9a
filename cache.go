package cache

import (
	"fmt"
	"regexp"
	"sync"
	"time"
)

// Cache is a generic in-memory cache keyed by string, with TTL expiry,
// LRU eviction bounded by entry count and estimated byte size, and
// group invalidation through dependency tags.
//
// A single lock guards the entry map, the recency index, and the
// dependency index; the three structures always change together.
type Cache[V any] struct {
	mu        sync.RWMutex
	entries   map[string]*entry[V]
	recency   *recencyList
	tags      tagIndex
	totalSize int64
	stats     counters
	cfg       config[V]

	closed bool
	stop   chan struct{}
	done   chan struct{}
}

// New creates a Cache with the given options and starts its background
// sweeper. The caller owns the instance and must Close it to stop the
// sweeper.
func New[V any](opts ...Option[V]) *Cache[V] {
	cfg := defaultConfig[V]()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Cache[V]{
		entries: make(map[string]*entry[V]),
		recency: newRecencyList(),
		tags:    newTagIndex(),
		cfg:     cfg,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	if cfg.registerer != nil {
		cfg.registerer.MustRegister(c.Collector(cfg.metricsName))
	}

	go c.sweep()
	return c
}

// Set adds or fully replaces the entry for key. The effective TTL is the
// cache default unless overridden with WithTTL; dependency tags from a
// prior entry under the same key that are absent from this call are
// dropped from the reverse index. Set never fails; after a Close it is a
// no-op.
func (c *Cache[V]) Set(key string, value V, opts ...SetOption) {
	var so setOptions
	so.ttl = c.cfg.defaultTTL
	for _, opt := range opts {
		opt(&so)
	}

	size := c.cfg.sizer(value)
	next := tagSet(so.dependencies)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	now := c.cfg.clock.Now()

	if ent, ok := c.entries[key]; ok {
		c.totalSize += size - ent.size
		c.tags.retag(key, ent.tags, next)
		ent.value = value
		ent.createdAt = now
		ent.expiresAt = expiry(now, so.ttl)
		ent.size = size
		ent.tags = next
		c.recency.touch(ent.elem)
		c.evictIfNeeded()
		return
	}

	ent := &entry[V]{
		value:      value,
		createdAt:  now,
		expiresAt:  expiry(now, so.ttl),
		size:       size,
		tags:       next,
		lastAccess: now,
	}
	ent.elem = c.recency.push(key)
	c.entries[key] = ent
	c.tags.add(key, next)
	c.totalSize += size
	c.evictIfNeeded()
}

// Get retrieves a value from the cache. An expired entry is removed on
// the spot (lazy expiry) and reported as a miss. A hit updates the
// entry's recency and hit bookkeeping.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return zero, false
	}

	ent, ok := c.entries[key]
	if !ok {
		c.stats.misses++
		if c.cfg.onMiss != nil {
			c.cfg.onMiss(key)
		}
		return zero, false
	}

	now := c.cfg.clock.Now()
	if ent.expired(now) {
		c.remove(key, ent)
		c.stats.evictions++
		c.stats.misses++
		if c.cfg.onEvict != nil {
			c.cfg.onEvict(key, ent.value)
		}
		if c.cfg.onMiss != nil {
			c.cfg.onMiss(key)
		}
		return zero, false
	}

	ent.hits++
	ent.lastAccess = now
	c.recency.touch(ent.elem)
	c.stats.hits++
	if c.cfg.onHit != nil {
		c.cfg.onHit(key, ent.value)
	}
	return ent.value, true
}

// Delete removes a key and all of its index references. It reports
// whether the key was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		return false
	}
	c.remove(key, ent)
	return true
}

// Clear removes every entry and all index structures. Cumulative
// hit/miss/eviction counters are preserved.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// reset drops all entries and indexes. Callers must hold the lock.
func (c *Cache[V]) reset() {
	c.entries = make(map[string]*entry[V])
	c.recency = newRecencyList()
	c.tags = newTagIndex()
	c.totalSize = 0
}

// Has checks if a key exists and is not expired. It does not count as an
// access: no hit/miss bookkeeping and no recency update.
func (c *Cache[V]) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ent, ok := c.entries[key]
	if !ok {
		return false
	}
	return !ent.expired(c.cfg.clock.Now())
}

// Len returns the number of entries in the cache. May include expired
// entries the sweeper has not reclaimed yet.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// InvalidateDependency removes every entry tagged with tag and returns
// the number removed. The lookup goes through the reverse index, so the
// cost is proportional to the matching keys, not the cache size. An
// unknown tag returns 0.
func (c *Cache[V]) InvalidateDependency(tag string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range c.tags.keys(tag) {
		if ent, ok := c.entries[key]; ok {
			c.remove(key, ent)
			removed++
		}
	}
	return removed
}

// InvalidatePattern compiles expr as a regular expression and removes
// every entry whose key matches it, returning the number removed. This
// is a full key scan; unlike dependency invalidation it is meant for
// rare namespace-wide flushes.
func (c *Cache[V]) InvalidatePattern(expr string) (int, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return 0, fmt.Errorf("compile pattern: %w", err)
	}
	return c.InvalidateRegexp(re), nil
}

// InvalidateRegexp removes every entry whose key matches re and returns
// the number removed.
func (c *Cache[V]) InvalidateRegexp(re *regexp.Regexp) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, ent := range c.entries {
		if re.MatchString(key) {
			c.remove(key, ent)
			removed++
		}
	}
	return removed
}

// Close stops the background sweeper and releases all entries. It blocks
// until any in-flight sweep has finished, so no sweep runs after Close
// returns. Close is idempotent; Get and Set on a closed cache no-op
// safely.
func (c *Cache[V]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done

	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
}

// remove deletes an entry from the store, the recency index, and the
// dependency index. Callers must hold the lock; leaving the three
// structures out of sync is a correctness bug, not just a leak.
func (c *Cache[V]) remove(key string, ent *entry[V]) {
	delete(c.entries, key)
	c.recency.remove(ent.elem)
	c.tags.removeKey(key, ent.tags)
	c.totalSize -= ent.size
}

// evictIfNeeded enforces the entry-count and byte-size ceilings by
// evicting from the least-recently-used end. Callers must hold the lock.
func (c *Cache[V]) evictIfNeeded() {
	for len(c.entries) > c.cfg.maxEntries {
		c.evictOldest()
	}

	if c.cfg.maxSizeBytes > 0 {
		// A single entry larger than the ceiling is still admitted once
		// everything else is gone, to avoid livelock.
		for c.totalSize > c.cfg.maxSizeBytes && len(c.entries) > 1 {
			c.evictOldest()
		}
	}
}

func (c *Cache[V]) evictOldest() {
	key, ok := c.recency.oldest()
	if !ok {
		return
	}
	ent := c.entries[key]
	c.remove(key, ent)
	c.stats.evictions++
	if c.cfg.onEvict != nil {
		c.cfg.onEvict(key, ent.value)
	}
}

// sweep runs until Close, proactively reclaiming expired entries so
// memory is returned even for keys nobody reads again.
func (c *Cache[V]) sweep() {
	defer close(c.done)

	ticker := time.NewTicker(c.cfg.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *Cache[V]) removeExpired() {
	c.mu.Lock()
	now := c.cfg.clock.Now()
	removed := 0
	for key, ent := range c.entries {
		if ent.expired(now) {
			c.remove(key, ent)
			c.stats.evictions++
			removed++
			if c.cfg.onEvict != nil {
				c.cfg.onEvict(key, ent.value)
			}
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.cfg.logger.Debug().Int("removed", removed).Msg("reclaimed expired cache entries")
	}
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
