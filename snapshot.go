package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// snapshot is the JSON document produced by Serialize.
type snapshot struct {
	Cache     map[string]json.RawMessage `json:"cache"`
	Stats     snapshotStats              `json:"stats"`
	Timestamp time.Time                  `json:"timestamp"`
}

type snapshotStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// Serialize captures the resolved values of all live entries plus the
// cumulative counters as a JSON document. TTL and dependency tags are
// not part of the snapshot; see Deserialize for the consequences. A
// value that cannot be marshaled is skipped and logged rather than
// failing the whole snapshot.
func (c *Cache[V]) Serialize() ([]byte, error) {
	c.mu.RLock()
	now := c.cfg.clock.Now()
	snap := snapshot{
		Cache: make(map[string]json.RawMessage, len(c.entries)),
		Stats: snapshotStats{
			Hits:      c.stats.hits,
			Misses:    c.stats.misses,
			Evictions: c.stats.evictions,
		},
		Timestamp: now,
	}
	skipped := 0
	for key, ent := range c.entries {
		if ent.expired(now) {
			continue
		}
		b, err := json.Marshal(ent.value)
		if err != nil {
			skipped++
			continue
		}
		snap.Cache[key] = b
	}
	c.mu.RUnlock()

	if skipped > 0 {
		c.cfg.logger.Warn().Int("skipped", skipped).Msg("snapshot skipped unmarshalable cache values")
	}
	return json.Marshal(snap)
}

// Deserialize re-populates the cache from a prior Serialize output.
// Every restored entry gets the cache's default TTL and no dependency
// tags, so restored keys are invisible to InvalidateDependency until the
// next real Set. A malformed document is logged and returned as an
// error with existing state untouched; individual entries that no longer
// decode into V are skipped.
func (c *Cache[V]) Deserialize(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.cfg.logger.Error().Err(err).Msg("discarding malformed cache snapshot")
		return fmt.Errorf("decode snapshot: %w", err)
	}

	restored := 0
	for key, raw := range snap.Cache {
		var v V
		if err := json.Unmarshal(raw, &v); err != nil {
			c.cfg.logger.Warn().Str("key", key).Err(err).Msg("skipping undecodable snapshot entry")
			continue
		}
		c.Set(key, v)
		restored++
	}

	c.cfg.logger.Debug().Int("restored", restored).Msg("cache snapshot restored")
	return nil
}
