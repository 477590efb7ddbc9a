package cache

import "sort"

// topKeysLimit bounds the TopKeys list in a Stats snapshot.
const topKeysLimit = 10

// counters are the monotonic counters maintained inline by the store
// under its lock; no separate locking pass is needed to read them.
type counters struct {
	hits      int64
	misses    int64
	evictions int64
}

// KeyHits pairs a key with its cumulative hit count.
type KeyHits struct {
	Key  string
	Hits int64
}

// Stats is a point-in-time snapshot of cache statistics.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
	SizeBytes int64
	TopKeys   []KeyHits
}

// HitRate returns the cache hit rate as a value between 0 and 1.
// Returns 0 if there have been no accesses.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// AvgEntrySize returns the mean estimated entry size in bytes.
// Returns 0 when the cache is empty.
func (s Stats) AvgEntrySize() int64 {
	if s.Entries == 0 {
		return 0
	}
	return s.SizeBytes / int64(s.Entries)
}

// Stats returns a snapshot of cache statistics, including the most-hit
// keys. Reading stats never mutates the hit/miss counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Hits:      c.stats.hits,
		Misses:    c.stats.misses,
		Evictions: c.stats.evictions,
		Entries:   len(c.entries),
		SizeBytes: c.totalSize,
		TopKeys:   c.topKeys(topKeysLimit),
	}
}

// topKeys returns up to n keys sorted by descending hit count. Callers
// must hold at least the read lock.
func (c *Cache[V]) topKeys(n int) []KeyHits {
	if len(c.entries) == 0 {
		return nil
	}

	top := make([]KeyHits, 0, len(c.entries))
	for key, ent := range c.entries {
		top = append(top, KeyHits{Key: key, Hits: ent.hits})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Hits != top[j].Hits {
			return top[i].Hits > top[j].Hits
		}
		return top[i].Key < top[j].Key
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}
