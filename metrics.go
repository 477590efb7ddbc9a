package cache

import "github.com/prometheus/client_golang/prometheus"

// collector exposes live cache statistics as prometheus metrics.
type collector[V any] struct {
	cache *Cache[V]

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	entries   *prometheus.Desc
	sizeBytes *prometheus.Desc
}

// Collector returns a prometheus.Collector over the cache's statistics,
// with metric names prefixed by name. Register it directly, or use
// WithMetrics to register at construction.
func (c *Cache[V]) Collector(name string) prometheus.Collector {
	return &collector[V]{
		cache: c,
		hits: prometheus.NewDesc(
			name+"_hits_total", "Total cache hits.", nil, nil),
		misses: prometheus.NewDesc(
			name+"_misses_total", "Total cache misses.", nil, nil),
		evictions: prometheus.NewDesc(
			name+"_evictions_total", "Total entries evicted by ceilings, expiry, or the sweeper.", nil, nil),
		entries: prometheus.NewDesc(
			name+"_entries", "Current number of cache entries.", nil, nil),
		sizeBytes: prometheus.NewDesc(
			name+"_size_bytes", "Estimated total size of cached values.", nil, nil),
	}
}

func (m *collector[V]) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.hits
	ch <- m.misses
	ch <- m.evictions
	ch <- m.entries
	ch <- m.sizeBytes
}

func (m *collector[V]) Collect(ch chan<- prometheus.Metric) {
	st := m.cache.Stats()
	ch <- prometheus.MustNewConstMetric(m.hits, prometheus.CounterValue, float64(st.Hits))
	ch <- prometheus.MustNewConstMetric(m.misses, prometheus.CounterValue, float64(st.Misses))
	ch <- prometheus.MustNewConstMetric(m.evictions, prometheus.CounterValue, float64(st.Evictions))
	ch <- prometheus.MustNewConstMetric(m.entries, prometheus.GaugeValue, float64(st.Entries))
	ch <- prometheus.MustNewConstMetric(m.sizeBytes, prometheus.GaugeValue, float64(st.SizeBytes))
}
