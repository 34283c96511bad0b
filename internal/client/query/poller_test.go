package query

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoller_RefreshesOnEachTick(t *testing.T) {
	c := NewCache()
	key := Key{Resource: "orders"}
	fetches := atomic.Int64{}

	p := NewPoller(c, key, 5*time.Millisecond, func(ctx context.Context) (any, error) {
		return fetches.Add(1), nil
	})

	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool {
		return fetches.Load() >= 3
	}, time.Second, time.Millisecond)

	v, ok := c.Peek(key)
	require.True(t, ok)
	require.GreaterOrEqual(t, v.(int64), int64(3))
}

func TestPoller_StopHaltsImmediately(t *testing.T) {
	c := NewCache()
	key := Key{Resource: "orders"}
	fetches := atomic.Int64{}

	p := NewPoller(c, key, 2*time.Millisecond, func(ctx context.Context) (any, error) {
		return fetches.Add(1), nil
	})

	p.Start(context.Background())
	require.Eventually(t, func() bool {
		return fetches.Load() >= 1
	}, time.Second, time.Millisecond)

	p.Stop()
	after := fetches.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, after, fetches.Load())
}

func TestPoller_StartTwiceIsNoop(t *testing.T) {
	c := NewCache()
	key := Key{Resource: "orders"}
	fetches := atomic.Int64{}

	p := NewPoller(c, key, time.Hour, func(ctx context.Context) (any, error) {
		return fetches.Add(1), nil
	})

	p.Start(context.Background())
	p.Start(context.Background())
	p.Stop()
	require.Zero(t, fetches.Load())
}

func TestPoller_StopWithoutStartIsNoop(t *testing.T) {
	p := NewPoller(NewCache(), Key{Resource: "orders"}, time.Hour, nil)
	p.Stop()
}

func TestPoller_ContextCancelStopsPolling(t *testing.T) {
	c := NewCache()
	fetches := atomic.Int64{}
	p := NewPoller(c, Key{Resource: "orders"}, 2*time.Millisecond, func(ctx context.Context) (any, error) {
		return fetches.Add(1), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	require.Eventually(t, func() bool {
		return fetches.Load() >= 1
	}, time.Second, time.Millisecond)

	cancel()
	time.Sleep(10 * time.Millisecond)
	after := fetches.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, after, fetches.Load())
	p.Stop()
}
