package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fetchValue(v any) FetchFunc {
	return func(ctx context.Context) (any, error) {
		return v, nil
	}
}

func TestReadThrough_FetchesOnceWhileFresh(t *testing.T) {
	c := NewCache()
	key := Key{Resource: "orders"}
	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	require.Equal(t, Absent, c.State(key))

	v, err := c.ReadThrough(context.Background(), key, fetch)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, v)
	require.Equal(t, Fresh, c.State(key))

	_, err = c.ReadThrough(context.Background(), key, fetch)
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestReadThrough_RefetchesWhenStale(t *testing.T) {
	c := NewCache()
	key := Key{Resource: "orders"}
	clock := time.Now()
	c.now = func() time.Time { return clock }

	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, err := c.ReadThrough(context.Background(), key, fetch)
	require.NoError(t, err)

	clock = clock.Add(StaleAfter + time.Second)
	require.Equal(t, Stale, c.State(key))

	v, err := c.ReadThrough(context.Background(), key, fetch)
	require.NoError(t, err)
	require.Equal(t, 2, v)
	require.Equal(t, Fresh, c.State(key))
}

func TestReadThrough_FetchErrorEntersErrorState(t *testing.T) {
	c := NewCache()
	key := Key{Resource: "orders"}
	boom := errors.New("boom")

	_, err := c.ReadThrough(context.Background(), key, func(ctx context.Context) (any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, Error, c.State(key))

	_, ok := c.Peek(key)
	require.False(t, ok)

	// error entries are not latched: the next read retries the fetch
	v, err := c.ReadThrough(context.Background(), key, fetchValue("recovered"))
	require.NoError(t, err)
	require.Equal(t, "recovered", v)
	require.Equal(t, Fresh, c.State(key))
}

func TestReadThrough_CoalescesConcurrentFetch(t *testing.T) {
	c := NewCache()
	key := Key{Resource: "orders"}

	started := make(chan struct{})
	release := make(chan struct{})
	fetches := atomic.Int64{}

	slow := func(ctx context.Context) (any, error) {
		fetches.Add(1)
		close(started)
		<-release
		return "slow", nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := c.ReadThrough(context.Background(), key, slow)
		require.NoError(t, err)
		require.Equal(t, "slow", v)
	}()

	<-started
	require.Equal(t, Loading, c.State(key))

	// the second caller is skipped, not queued behind the running fetch
	_, err := c.ReadThrough(context.Background(), key, fetchValue("fast"))
	require.ErrorIs(t, err, ErrLoading)

	close(release)
	wg.Wait()
	require.Equal(t, int64(1), fetches.Load())
	require.Equal(t, Fresh, c.State(key))
}

func TestReadThrough_CoalescedCallerGetsPreviousValue(t *testing.T) {
	c := NewCache()
	key := Key{Resource: "orders"}
	clock := time.Now()
	c.now = func() time.Time { return clock }

	_, err := c.ReadThrough(context.Background(), key, fetchValue("old"))
	require.NoError(t, err)
	clock = clock.Add(StaleAfter + time.Second)

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = c.ReadThrough(context.Background(), key, func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "new", nil
		})
	}()

	<-started
	v, err := c.ReadThrough(context.Background(), key, fetchValue("unused"))
	require.NoError(t, err)
	require.Equal(t, "old", v)

	close(release)
	wg.Wait()
}

func TestRefresh_BypassesFreshness(t *testing.T) {
	c := NewCache()
	key := Key{Resource: "orders"}
	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, err := c.ReadThrough(context.Background(), key, fetch)
	require.NoError(t, err)
	v, err := c.Refresh(context.Background(), key, fetch)
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestInvalidate_MarksResourceEntriesStale(t *testing.T) {
	c := NewCache()
	list := Key{Resource: "orders"}
	detail := Key{Resource: "orders", Params: "id=3"}
	other := Key{Resource: "users"}

	for _, key := range []Key{list, detail, other} {
		_, err := c.ReadThrough(context.Background(), key, fetchValue("v"))
		require.NoError(t, err)
	}

	c.Invalidate("orders")
	require.Equal(t, Stale, c.State(list))
	require.Equal(t, Stale, c.State(detail))
	require.Equal(t, Fresh, c.State(other))

	// stale entries keep their value for display
	v, ok := c.Peek(list)
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestPatchAndRestore(t *testing.T) {
	c := NewCache()
	key := Key{Resource: "users"}

	_, err := c.ReadThrough(context.Background(), key, fetchValue([]int{1, 2, 3}))
	require.NoError(t, err)

	snap, ok := c.Snapshot(key)
	require.True(t, ok)

	c.Patch(key, []int{1, 3})
	v, _ := c.Peek(key)
	require.Equal(t, []int{1, 3}, v)

	c.Restore(key, snap)
	v, _ = c.Peek(key)
	require.Equal(t, []int{1, 2, 3}, v)
}

func TestPatch_OnEmptyEntryMakesItReadable(t *testing.T) {
	c := NewCache()
	key := Key{Resource: "users"}

	c.Patch(key, "local")
	require.Equal(t, Fresh, c.State(key))
	v, ok := c.Peek(key)
	require.True(t, ok)
	require.Equal(t, "local", v)
}

func TestCancelInFlight_LateResponseDoesNotClobberPatch(t *testing.T) {
	c := NewCache()
	key := Key{Resource: "users"}

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := c.Refresh(context.Background(), key, func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "server", nil
		})
		require.ErrorIs(t, err, context.Canceled)
	}()

	<-started
	c.CancelInFlight(key)
	c.Patch(key, "patched")
	close(release)
	wg.Wait()

	v, ok := c.Peek(key)
	require.True(t, ok)
	require.Equal(t, "patched", v)
}

func TestCancelInFlight_WithoutFetchIsNoop(t *testing.T) {
	c := NewCache()
	c.CancelInFlight(Key{Resource: "users"})
	require.Equal(t, Absent, c.State(Key{Resource: "users"}))
}
