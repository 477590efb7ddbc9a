package cache

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New[int](
		WithMetrics[int](reg, "fscrape_cache"),
		WithSizer[int](func(int) int64 { return 10 }),
	)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // hit
	c.Get("x") // miss

	expected := `# HELP fscrape_cache_entries Current number of cache entries.
# TYPE fscrape_cache_entries gauge
fscrape_cache_entries 2
# HELP fscrape_cache_hits_total Total cache hits.
# TYPE fscrape_cache_hits_total counter
fscrape_cache_hits_total 1
# HELP fscrape_cache_misses_total Total cache misses.
# TYPE fscrape_cache_misses_total counter
fscrape_cache_misses_total 1
# HELP fscrape_cache_size_bytes Estimated total size of cached values.
# TYPE fscrape_cache_size_bytes gauge
fscrape_cache_size_bytes 20
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"fscrape_cache_entries",
		"fscrape_cache_hits_total",
		"fscrape_cache_misses_total",
		"fscrape_cache_size_bytes",
	)
	require.NoError(t, err)
}

func TestCollectorEvictions(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New[int](
		WithMetrics[int](reg, "fscrape_cache"),
		WithMaxEntries[int](1),
	)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2) // evicts a

	expected := `# HELP fscrape_cache_evictions_total Total entries evicted by ceilings, expiry, or the sweeper.
# TYPE fscrape_cache_evictions_total counter
fscrape_cache_evictions_total 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"fscrape_cache_evictions_total",
	)
	require.NoError(t, err)
}

func TestCollectorStandalone(t *testing.T) {
	c := New[int]()
	defer c.Close()

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c.Collector("standalone_cache")))

	c.Set("a", 1)

	metrics, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, metrics, 5)
}
