package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoizeCallCount(t *testing.T) {
	c := New[int]()
	defer c.Close()

	calls := 0
	double := Memoize(c, "double", func(_ context.Context, n int) (int, error) {
		calls++
		return n * 2, nil
	})

	ctx := context.Background()

	v, err := double(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 10, v)

	v, err = double(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 10, v)
	require.Equal(t, 1, calls, "second call with equal args should hit the cache")

	v, err = double(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 20, v)
	require.Equal(t, 2, calls, "new args should invoke the function")
}

func TestMemoizeTTLExpiry(t *testing.T) {
	clk := &mockClock{now: time.Now()}
	c := New[int](WithClock[int](clk))
	defer c.Close()

	calls := 0
	fn := Memoize(c, "ttl", func(_ context.Context, n int) (int, error) {
		calls++
		return n, nil
	}, WithMemoTTL[int](time.Minute))

	ctx := context.Background()

	_, err := fn(ctx, 1)
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)

	_, err = fn(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, calls, "expired result should be recomputed")
}

func TestMemoizeErrorNotCached(t *testing.T) {
	c := New[int]()
	defer c.Close()

	testErr := errors.New("compute failed")
	calls := 0
	fn := Memoize(c, "flaky", func(_ context.Context, n int) (int, error) {
		calls++
		if calls == 1 {
			return 0, testErr
		}
		return n, nil
	})

	ctx := context.Background()

	_, err := fn(ctx, 7)
	require.ErrorIs(t, err, testErr)

	// the failure must not poison the key
	v, err := fn(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 7, v)
	require.Equal(t, 2, calls)

	// and the retry's success is cached
	_, err = fn(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestMemoizeSingleFlight(t *testing.T) {
	c := New[int]()
	defer c.Close()

	var callCount atomic.Int32
	proceed := make(chan struct{})

	fn := Memoize(c, "slow", func(_ context.Context, _ int) (int, error) {
		callCount.Add(1)
		<-proceed
		return 42, nil
	})

	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]int, 3)
	errs := make([]error, 3)

	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = fn(ctx, 1)
		}(i)
	}

	// give goroutines time to coalesce on the same in-flight computation
	time.Sleep(10 * time.Millisecond)
	close(proceed)
	wg.Wait()

	require.Equal(t, int32(1), callCount.Load(), "overlapping calls must share one invocation")
	for i := 0; i < 3; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, 42, results[i])
	}
}

func TestMemoizeCustomKeyGenerator(t *testing.T) {
	c := New[int]()
	defer c.Close()

	calls := 0
	fn := Memoize(c, "custom", func(_ context.Context, n int) (int, error) {
		calls++
		return n, nil
	}, WithKeyGenerator[int](func(_ int) string { return "custom:fixed" }))

	ctx := context.Background()

	v, err := fn(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	// different argument, same derived key: cached result wins
	v, err = fn(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.Equal(t, 1, calls)

	require.True(t, c.Has("custom:fixed"))
}
