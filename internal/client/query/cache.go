// Package query implements the shared resource cache: read-through fetching
// with per-entry state, invalidation, optimistic patching with rollback, and
// fixed-interval polling.
//
// The cache is the only shared mutable state on the client, and every write
// to it goes through one of three disciplines: read-through fetch,
// invalidate, or the snapshot-patch-rollback sequence. Ad-hoc writes are not
// part of the API.
package query

import (
	"context"
	"errors"
	"sync"
	"time"
)

// StaleAfter is how long a fetched entry is served without refetching when
// no poller is driving it.
const StaleAfter = 30 * time.Second

// ErrLoading is returned when an entry has no value yet and its first fetch
// is still in flight on another goroutine.
var ErrLoading = errors.New("query: fetch in flight")

// State is a cache entry's position in its lifecycle.
type State int

const (
	Absent State = iota
	Loading
	Fresh
	Stale
	Error
)

// Key identifies a cache entry: the resource plus its encoded parameters.
type Key struct {
	Resource string
	Params   string
}

// FetchFunc loads an entry's value from the server.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	state     State
	value     any
	err       error
	fetchedAt time.Time
	inFlight  bool
	cancel    context.CancelFunc
}

// Cache holds resource snapshots keyed by (resource, params).
type Cache struct {
	mu         sync.Mutex
	entries    map[Key]*entry
	staleAfter time.Duration
	now        func() time.Time
}

// NewCache returns an empty cache with the default staleness window.
func NewCache() *Cache {
	return &Cache{
		entries:    make(map[Key]*entry),
		staleAfter: StaleAfter,
		now:        time.Now,
	}
}

func (c *Cache) ensureLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{state: Absent}
		c.entries[key] = e
	}
	return e
}

// State reports an entry's current state.
func (c *Cache) State(key Key) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Absent
	}
	if e.inFlight {
		return Loading
	}
	if e.state == Fresh && c.now().Sub(e.fetchedAt) >= c.staleAfter {
		return Stale
	}
	return e.state
}

// Peek returns an entry's value without fetching.
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || (e.state != Fresh && e.state != Stale) {
		return nil, false
	}
	return e.value, true
}

// ReadThrough serves a fresh entry from cache and fetches otherwise. A call
// arriving while a fetch for the same key is in flight is coalesced: it is
// served the previous value when one exists and ErrLoading when not. It is
// never queued behind the running fetch.
func (c *Cache) ReadThrough(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	return c.load(ctx, key, fetch, false)
}

// Refresh is ReadThrough minus the freshness check: it always refetches
// unless a fetch is already in flight. Pollers drive entries through it.
func (c *Cache) Refresh(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	return c.load(ctx, key, fetch, true)
}

func (c *Cache) load(ctx context.Context, key Key, fetch FetchFunc, force bool) (any, error) {
	c.mu.Lock()
	e := c.ensureLocked(key)

	if e.inFlight {
		value, state := e.value, e.state
		c.mu.Unlock()
		if state == Fresh || state == Stale {
			return value, nil
		}
		return nil, ErrLoading
	}
	if !force && e.state == Fresh && c.now().Sub(e.fetchedAt) < c.staleAfter {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	e.inFlight = true
	e.cancel = cancel
	if e.state == Absent || e.state == Error {
		e.state = Loading
	}
	c.mu.Unlock()

	value, err := fetch(fetchCtx)
	canceled := fetchCtx.Err() != nil
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	e.inFlight = false
	e.cancel = nil

	if canceled {
		// a canceled fetch must not clobber the entry; the canceling party
		// (optimistic patch) owns the value now
		if e.state == Loading {
			e.state = Absent
		}
		return nil, context.Canceled
	}
	if err != nil {
		e.state = Error
		e.err = err
		return nil, err
	}
	e.value = value
	e.err = nil
	e.state = Fresh
	e.fetchedAt = c.now()
	return value, nil
}

// Invalidate marks every entry of the resource stale so the next read
// refetches. Entries keep their value for display in the meantime.
func (c *Cache) Invalidate(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if key.Resource != resource {
			continue
		}
		if e.state == Fresh {
			e.state = Stale
		}
	}
}

// CancelInFlight aborts the entry's running fetch, if any, so a late
// response cannot overwrite a subsequent optimistic patch.
func (c *Cache) CancelInFlight(key Key) {
	c.mu.Lock()
	cancel := (context.CancelFunc)(nil)
	if e, ok := c.entries[key]; ok && e.cancel != nil {
		cancel = e.cancel
	}
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Snapshot captures the entry's current value for a later Restore.
func (c *Cache) Snapshot(key Key) (any, bool) {
	return c.Peek(key)
}

// Patch applies an optimistic local value ahead of server confirmation.
func (c *Cache) Patch(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.ensureLocked(key)
	e.value = value
	e.err = nil
	if e.state == Absent || e.state == Loading || e.state == Error {
		e.state = Fresh
		e.fetchedAt = c.now()
	}
}

// Restore puts a snapshot back verbatim after a failed optimistic mutation.
func (c *Cache) Restore(key Key, snapshot any) {
	c.Patch(key, snapshot)
}
