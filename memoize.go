package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// MemoOption configures a memoized function.
type MemoOption[A any] func(*memoOptions[A])

type memoOptions[A any] struct {
	ttl   time.Duration
	keyFn func(A) string
}

// WithMemoTTL overrides the cache's default TTL for results stored by
// the memoized function.
func WithMemoTTL[A any](d time.Duration) MemoOption[A] {
	return func(o *memoOptions[A]) {
		o.ttl = d
	}
}

// WithKeyGenerator replaces the default argument-derived cache key.
func WithKeyGenerator[A any](fn func(A) string) MemoOption[A] {
	return func(o *memoOptions[A]) {
		o.keyFn = fn
	}
}

// Memoize wraps fn with transparent caching in c. The cache key is
// derived from the call argument via Key(namespace, arg) unless a custom
// generator is supplied.
//
// Concurrent calls that derive the same key coalesce into a single
// invocation of fn; late callers observe the in-flight computation
// rather than starting their own. The computation itself runs outside
// the cache lock. A failed call stores nothing, so the key is not
// poisoned and the next call retries.
func Memoize[A, V any](c *Cache[V], namespace string, fn func(context.Context, A) (V, error), opts ...MemoOption[A]) func(context.Context, A) (V, error) {
	var mo memoOptions[A]
	for _, opt := range opts {
		opt(&mo)
	}
	keyFn := mo.keyFn
	if keyFn == nil {
		keyFn = func(arg A) string {
			return Key(namespace, arg)
		}
	}

	var flight singleflight.Group

	return func(ctx context.Context, arg A) (V, error) {
		key := keyFn(arg)

		if v, ok := c.Get(key); ok {
			return v, nil
		}

		v, err, _ := flight.Do(key, func() (any, error) {
			// A concurrent caller may have stored the value between our
			// miss and claiming the flight.
			if v, ok := c.Get(key); ok {
				return v, nil
			}

			v, err := fn(ctx, arg)
			if err != nil {
				return nil, err
			}

			if mo.ttl > 0 {
				c.Set(key, v, WithTTL(mo.ttl))
			} else {
				c.Set(key, v)
			}
			return v, nil
		})
		if err != nil {
			var zero V
			return zero, err
		}
		return v.(V), nil
	}
}
