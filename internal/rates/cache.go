package rates

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
)

const (
	DefaultTTL          = time.Hour
	DefaultFetchTimeout = 5 * time.Second
)

// Cache holds one rate snapshot per base currency. Snapshots are served
// without touching the provider while younger than the TTL. At most one
// provider fetch per base is in flight; concurrent callers share it.
type Cache struct {
	provider     Provider
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	logger       *slog.Logger

	mu    sync.RWMutex
	sets  map[currency.Code]*Set
	group singleflight.Group
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithFetchTimeout bounds a single provider call. A timeout counts as a
// provider failure.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) { c.fetchTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

func NewCache(provider Provider, opts ...Option) *Cache {
	c := &Cache{
		provider:     provider,
		ttl:          DefaultTTL,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		logger:       slog.Default(),
		sets:         make(map[currency.Code]*Set),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the snapshot for base, fetching it when missing or expired.
// If the fetch fails and an older snapshot exists, that snapshot is returned
// marked stale. ErrRateUnavailable is returned only when there is nothing
// to fall back to.
func (c *Cache) Get(ctx context.Context, base currency.Code) (*Set, error) {
	if set, ok := c.fresh(base); ok {
		return set, nil
	}

	return c.load(ctx, base, false)
}

// Refresh fetches base from the provider even if the cached snapshot is
// still fresh. It shares any fetch already in flight for base.
func (c *Cache) Refresh(ctx context.Context, base currency.Code) (*Set, error) {
	return c.load(ctx, base, true)
}

// Peek returns the cached snapshot for base, fresh or not, without fetching.
func (c *Cache) Peek(base currency.Code) (*Set, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set, ok := c.sets[base]

	return set, ok
}

func (c *Cache) fresh(base currency.Code) (*Set, bool) {
	set, ok := c.Peek(base)
	if !ok || c.now().Sub(set.FetchedAt) >= c.ttl {
		return nil, false
	}

	return set, true
}

func (c *Cache) load(ctx context.Context, base currency.Code, force bool) (*Set, error) {
	// The fetch outlives any single caller: it runs on a detached context
	// bounded only by fetchTimeout.
	detached := context.WithoutCancel(ctx)

	ch := c.group.DoChan(string(base), func() (any, error) {
		if !force {
			// A flight that finished between our freshness check and
			// joining the group already stored a snapshot.
			if set, ok := c.fresh(base); ok {
				return set, nil
			}
		}

		return c.fetch(detached, base)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.(*Set), nil
	}
}

func (c *Cache) fetch(ctx context.Context, base currency.Code) (*Set, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	set, err := c.provider.Fetch(ctx, base)
	if err == nil && set == nil {
		err = fmt.Errorf("%w: empty response for %s", ErrProvider, base)
	}

	// Some feeds publish a single base; snapshots are always stored
	// quoted per unit of the requested base.
	if err == nil {
		set, err = set.Rebase(base)
	}

	if err != nil {
		prev, ok := c.Peek(base)
		if !ok {
			c.logger.Error("rate fetch failed with no cached snapshot", "base", base, "error", err)
			return nil, fmt.Errorf("%w for %s: %w", ErrRateUnavailable, base, err)
		}

		c.logger.Warn("rate fetch failed, serving stale snapshot",
			"base", base, "fetched_at", prev.FetchedAt, "error", err)

		return prev.withNote(staleNote(prev), true), nil
	}

	stored := *set
	stored.FetchedAt = c.now()
	stored.Stale = false

	if stored.AsOf.IsZero() {
		stored.AsOf = stored.FetchedAt
	}

	c.mu.Lock()
	c.sets[base] = &stored
	c.mu.Unlock()

	c.logger.Debug("rates refreshed", "base", base, "source", stored.Source, "quotes", len(stored.Rates))

	return &stored, nil
}

func staleNote(s *Set) string {
	return fmt.Sprintf("stale, last updated %s", s.FetchedAt.UTC().Format("2006-01-02 15:04 UTC"))
}
