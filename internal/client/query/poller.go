package query

import (
	"context"
	"sync"
	"time"
)

// Poller intervals for the near-real-time order views.
const (
	OrdersListInterval  = 5 * time.Second
	OrderDetailInterval = 3 * time.Second
)

// Poller refreshes one cache entry on a fixed interval while live updates
// are enabled. A tick that fires while the previous fetch is still running
// is coalesced by the cache, not queued.
type Poller struct {
	cache    *Cache
	key      Key
	fetch    FetchFunc
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller builds a poller for one entry. It does nothing until Start.
func NewPoller(cache *Cache, key Key, interval time.Duration, fetch FetchFunc) *Poller {
	return &Poller{cache: cache, key: key, fetch: fetch, interval: interval}
}

// Start begins interval refreshes. Starting a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = p.cache.Refresh(ctx, p.key, p.fetch)
			}
		}
	}(p.done)
}

// Stop halts polling immediately. The entry falls back to the normal
// staleness-based refetching regime.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
