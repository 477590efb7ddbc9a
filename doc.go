// Package cache provides the in-memory analytics cache for fscrape: a
// generic store with TTL expiry, LRU eviction bounded by entry count and
// byte size, dependency-tag invalidation, function memoization, and
// concurrent warmup.
//
// # Overview
//
// Scraped forum data feeds statistics computations (trends, anomalies,
// forecasts) that are expensive to recompute. This cache sits between
// the analytics layer and those computations. Values are opaque to the
// cache; callers choose namespaces, parameters, and dependency tags that
// mirror their own partitioning ("platform:reddit", "time-range", ...).
//
// # Basic Usage
//
// Create a cache and perform basic operations:
//
//	c := cache.New[analytics.TrendReport](
//		cache.WithMaxEntries[analytics.TrendReport](1000),
//		cache.WithDefaultTTL[analytics.TrendReport](5 * time.Minute),
//	)
//	defer c.Close()
//
//	key := cache.Key("trends", map[string]any{"platform": "reddit", "days": 30})
//
//	c.Set(key, report, cache.WithDependencies("platform:reddit"))
//
//	if v, ok := c.Get(key); ok {
//		fmt.Println(v.Slope)
//	}
//
// # Invalidation
//
// Entries tagged with dependencies are removed as a group without
// scanning the key space:
//
//	n := c.InvalidateDependency("platform:reddit")
//
// Pattern invalidation scans every key against a regular expression and
// is meant for rare namespace-wide flushes:
//
//	n, err := c.InvalidatePattern("^trends:")
//
// # Deterministic Keys
//
// Key canonicalizes structured parameters before hashing, so
// structurally equal params always map to the same key:
//
//	a := cache.Key("stats", map[string]any{"a": 1, "b": 2})
//	b := cache.Key("stats", map[string]any{"b": 2, "a": 1})
//	// a == b
//
// # Memoization
//
// Wrap an expensive function so repeat calls with equal arguments hit
// the cache. Overlapping calls for the same key share one invocation:
//
//	trend := cache.Memoize(c, "trends", computeTrend,
//		cache.WithMemoTTL[TrendQuery](10*time.Minute))
//
//	report, err := trend(ctx, TrendQuery{Platform: "hackernews", Days: 7})
//
// # Warmup
//
// Pre-populate the cache before traffic starts. Tasks run concurrently
// and a failing task never blocks the others:
//
//	c.Warmup(ctx, []cache.WarmupTask[Report]{
//		{Key: "trends:reddit", Compute: redditTrends, Dependencies: []string{"platform:reddit"}},
//		{Key: "trends:hn", Compute: hnTrends, Dependencies: []string{"platform:hackernews"}},
//	})
//
// # Statistics and Metrics
//
// Stats returns counters, size accounting, and the most-hit keys:
//
//	st := c.Stats()
//	fmt.Printf("hit rate %.2f, %d entries, %d bytes\n",
//		st.HitRate(), st.Entries, st.SizeBytes)
//
// For scraping into prometheus, register a collector:
//
//	c := cache.New[Report](cache.WithMetrics[Report](prometheus.DefaultRegisterer, "fscrape_analytics_cache"))
//
// # Snapshots
//
// Serialize writes resolved values and counters to JSON for best-effort
// cold-start population; Deserialize restores them with the default TTL.
// TTL and dependency metadata do not survive a snapshot round-trip.
//
// # Lifecycle
//
// New starts a background sweeper that reclaims expired entries on a
// fixed interval. Close stops it deterministically and releases all
// entries; operations on a closed cache no-op safely.
//
// # Thread Safety
//
// All methods are safe for concurrent use. A single lock guards the
// entry map and both indexes so they always change together; memoized
// computations and warmup tasks run outside that lock.
package cache
