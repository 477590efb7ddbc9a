package cache

import (
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxEntries is the default entry-count ceiling.
	DefaultMaxEntries = 1000
	// DefaultMaxSizeBytes is the default byte-size ceiling (100 MiB).
	DefaultMaxSizeBytes = 100 << 20
	// DefaultTTL is the default entry time-to-live.
	DefaultTTL = 5 * time.Minute
	// DefaultCleanupInterval is how often the background sweeper runs.
	DefaultCleanupInterval = time.Minute
)

type config[V any] struct {
	maxEntries      int
	maxSizeBytes    int64
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	clock           Clock
	logger          zerolog.Logger
	sizer           func(V) int64
	onEvict         func(string, V)
	onHit           func(string, V)
	onMiss          func(string)
	registerer      prometheus.Registerer
	metricsName     string
}

func defaultConfig[V any]() config[V] {
	return config[V]{
		maxEntries:      DefaultMaxEntries,
		maxSizeBytes:    DefaultMaxSizeBytes,
		defaultTTL:      DefaultTTL,
		cleanupInterval: DefaultCleanupInterval,
		clock:           realClock{},
		logger:          zerolog.Nop(),
		sizer:           jsonSize[V],
	}
}

// jsonSize estimates the serialized size of a value. Values that cannot
// be marshaled count a nominal single byte.
func jsonSize[V any](v V) int64 {
	b, err := json.Marshal(v)
	if err != nil {
		return 1
	}
	return int64(len(b))
}

// Option configures a Cache.
type Option[V any] func(*config[V])

// WithMaxEntries sets the maximum number of entries before LRU eviction.
func WithMaxEntries[V any](n int) Option[V] {
	return func(c *config[V]) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithMaxSizeBytes sets the ceiling on the estimated total size of
// cached values. Zero disables the size ceiling.
func WithMaxSizeBytes[V any](n int64) Option[V] {
	return func(c *config[V]) {
		c.maxSizeBytes = n
	}
}

// WithDefaultTTL sets the time-to-live applied when Set is called
// without an explicit TTL. Zero means entries never expire by default.
func WithDefaultTTL[V any](d time.Duration) Option[V] {
	return func(c *config[V]) {
		c.defaultTTL = d
	}
}

// WithCleanupInterval sets how often the background sweeper reclaims
// expired entries.
func WithCleanupInterval[V any](d time.Duration) Option[V] {
	return func(c *config[V]) {
		if d > 0 {
			c.cleanupInterval = d
		}
	}
}

// WithClock sets a custom clock for time operations. Useful for testing
// TTL behavior.
func WithClock[V any](clk Clock) Option[V] {
	return func(c *config[V]) {
		c.clock = clk
	}
}

// WithLogger sets the logger used for sweeper, warmup, and snapshot
// reporting. The default discards everything.
func WithLogger[V any](logger zerolog.Logger) Option[V] {
	return func(c *config[V]) {
		c.logger = logger
	}
}

// WithSizer sets the function used to estimate the byte size of a value
// at insert time. The default measures the JSON encoding.
func WithSizer[V any](fn func(V) int64) Option[V] {
	return func(c *config[V]) {
		if fn != nil {
			c.sizer = fn
		}
	}
}

// WithMetrics registers a prometheus collector for the cache under the
// given metric name prefix.
func WithMetrics[V any](reg prometheus.Registerer, name string) Option[V] {
	return func(c *config[V]) {
		c.registerer = reg
		c.metricsName = name
	}
}

// OnEvict sets a callback invoked whenever an entry is evicted, whether
// by a ceiling, lazy expiry, or the sweeper.
func OnEvict[V any](fn func(string, V)) Option[V] {
	return func(c *config[V]) {
		c.onEvict = fn
	}
}

// OnHit sets a callback invoked on cache hits.
func OnHit[V any](fn func(string, V)) Option[V] {
	return func(c *config[V]) {
		c.onHit = fn
	}
}

// OnMiss sets a callback invoked on cache misses.
func OnMiss[V any](fn func(string)) Option[V] {
	return func(c *config[V]) {
		c.onMiss = fn
	}
}

// SetOption configures a single Set call.
type SetOption func(*setOptions)

type setOptions struct {
	ttl          time.Duration
	dependencies []string
}

// WithTTL overrides the cache's default TTL for one entry.
func WithTTL(d time.Duration) SetOption {
	return func(o *setOptions) {
		o.ttl = d
	}
}

// WithDependencies tags an entry so it can be removed as a group via
// InvalidateDependency. Tags are opaque to the cache.
func WithDependencies(tags ...string) SetOption {
	return func(o *setOptions) {
		o.dependencies = tags
	}
}
