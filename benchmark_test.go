package cache

import (
	"strconv"
	"testing"
)

func BenchmarkCache_Get(b *testing.B) {
	c := New[int](WithMaxEntries[int](1000))
	defer c.Close()

	keys := make([]string, 100)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
		c.Set(keys[i], i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(keys[i%100])
	}
}

func BenchmarkCache_Set(b *testing.B) {
	c := New[int](WithMaxEntries[int](b.N + 1))
	defer c.Close()

	keys := make([]string, b.N)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(keys[i], i)
	}
}

func BenchmarkCache_SetWithEviction(b *testing.B) {
	c := New[int](WithMaxEntries[int](100))
	defer c.Close()

	keys := make([]string, b.N)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(keys[i], i)
	}
}

func BenchmarkCache_SetTagged(b *testing.B) {
	c := New[int]()
	defer c.Close()

	keys := make([]string, b.N)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(keys[i], i, WithDependencies("platform:reddit", "time-range"))
	}
}

func BenchmarkCache_InvalidateDependency(b *testing.B) {
	c := New[int](WithMaxEntries[int](b.N + 1))
	defer c.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		key := strconv.Itoa(i)
		c.Set(key, i, WithDependencies("batch"))
		b.StartTimer()

		c.InvalidateDependency("batch")
	}
}

func BenchmarkCache_Parallel(b *testing.B) {
	c := New[int](WithMaxEntries[int](1000))
	defer c.Close()

	keys := make([]string, 100)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
		c.Set(keys[i], i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%2 == 0 {
				c.Get(keys[i%100])
			} else {
				c.Set(keys[i%100], i)
			}
			i++
		}
	})
}

func BenchmarkKey(b *testing.B) {
	params := map[string]any{
		"platform":  "reddit",
		"timeRange": "30d",
		"filters":   map[string]any{"minScore": 10, "sort": "top"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Key("trends", params)
	}
}
