package provider

import (
	"context"
	"sync"
	"time"

	"coinlens/pkg/model"
)

// CachingProvider wraps a Provider with an in-memory cache keyed by
// symbol and date range. Peer comparisons re-request the same series for
// every metric family, so repeated fetches within a run hit the cache.
type CachingProvider struct {
	inner Provider
	cache map[cacheKey]*model.Series
	mu    sync.Mutex
}

type cacheKey struct {
	symbol string
	start  int64
	end    int64
}

// NewCachingProvider creates a caching wrapper around inner.
func NewCachingProvider(inner Provider) *CachingProvider {
	return &CachingProvider{
		inner: inner,
		cache: make(map[cacheKey]*model.Series),
	}
}

func (p *CachingProvider) Name() string      { return p.inner.Name() }
func (p *CachingProvider) IsAvailable() bool { return p.inner.IsAvailable() }
func (p *CachingProvider) RateLimit() int    { return p.inner.RateLimit() }

func (p *CachingProvider) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) (*model.Series, error) {
	key := cacheKey{symbol: symbol, start: start.Unix(), end: end.Unix()}

	p.mu.Lock()
	if s, ok := p.cache[key]; ok {
		p.mu.Unlock()
		return s, nil
	}
	p.mu.Unlock()

	s, err := p.inner.GetDailyBars(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[key] = s
	p.mu.Unlock()

	return s, nil
}
