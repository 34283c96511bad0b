// Package identity owns the "current identity" cache entry: the profile and
// permission set fetched for the stored session token.
package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/httpx"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/model"
	"github.com/aaleksaaleksic/food-ordering-system/internal/client/session"
)

// Freshness is how long a fetched identity is served from cache before the
// next Get refetches it.
const Freshness = 60 * time.Second

var (
	// ErrNoSession is returned when no token is stored; no network call is
	// attempted in that case.
	ErrNoSession = errors.New("identity: no session")
	// ErrLoading is returned while another caller's fetch for the identity
	// is still in flight and there is no cached value to serve.
	ErrLoading = errors.New("identity: fetch in flight")
)

// Query caches the current identity keyed off the session token.
//
// Contract:
//   - no token: Get returns ErrNoSession without touching the network;
//   - fetch failure is cached and NOT retried automatically; callers treat
//     it as "no session" until Invalidate or ForceRefresh;
//   - the cached identity is replaced wholesale on refetch, never mutated.
type Query struct {
	client *httpx.Client
	tokens session.TokenStore

	mu        sync.Mutex
	cached    *model.Identity
	fetchedAt time.Time
	lastErr   error
	inFlight  bool

	freshness time.Duration
	now       func() time.Time
}

// NewQuery builds the identity query.
func NewQuery(client *httpx.Client, tokens session.TokenStore) *Query {
	return &Query{
		client:    client,
		tokens:    tokens,
		freshness: Freshness,
		now:       time.Now,
	}
}

// Get returns the current identity, fetching when the cache is absent or
// older than the freshness window.
func (q *Query) Get(ctx context.Context) (*model.Identity, error) {
	if _, ok := q.tokens.Token(); !ok {
		return nil, ErrNoSession
	}

	q.mu.Lock()
	if q.lastErr != nil {
		err := q.lastErr
		q.mu.Unlock()
		return nil, err
	}
	if q.cached != nil && q.now().Sub(q.fetchedAt) < q.freshness {
		ident := q.cached
		q.mu.Unlock()
		return ident, nil
	}
	if q.inFlight {
		// a tick firing during an in-flight fetch is coalesced, not queued
		ident := q.cached
		q.mu.Unlock()
		if ident != nil {
			return ident, nil
		}
		return nil, ErrLoading
	}
	q.inFlight = true
	q.mu.Unlock()

	var ident model.Identity
	err := q.client.Get(ctx, "/v1/auth/me", nil, &ident)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.inFlight = false
	if err != nil {
		q.lastErr = err
		return nil, err
	}
	q.cached = &ident
	q.fetchedAt = q.now()
	return &ident, nil
}

// ForceRefresh drops the cache, including a cached failure, and fetches
// anew. Called after a successful login.
func (q *Query) ForceRefresh(ctx context.Context) (*model.Identity, error) {
	q.Invalidate()
	return q.Get(ctx)
}

// Invalidate removes the cached identity and any cached failure. Called on
// logout.
func (q *Query) Invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cached = nil
	q.fetchedAt = time.Time{}
	q.lastErr = nil
}
