package huggingface

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"

	"ModelScout/internal/domain"
	"ModelScout/internal/ports"
)

type cacheEntry struct {
	records   []domain.ModelRecord
	fetchedAt time.Time
}

// CachedSource keeps listings per tag for a fixed TTL.
type CachedSource struct {
	source ports.ModelSource
	ttl    time.Duration
	clock  clock.Clock

	mu      sync.Mutex
	entries map[string]cacheEntry
}

var _ ports.ModelSource = (*CachedSource)(nil)

// NewCachedSource wraps source. A non-positive ttl disables caching.
func NewCachedSource(source ports.ModelSource, ttl time.Duration, clk clock.Clock) *CachedSource {
	if clk == nil {
		clk = clock.WallClock
	}
	return &CachedSource{
		source:  source,
		ttl:     ttl,
		clock:   clk,
		entries: map[string]cacheEntry{},
	}
}

// ListModels serves a cached listing while it is fresh. Callers get their own
// copy of the slice.
func (c *CachedSource) ListModels(ctx context.Context, tag string) ([]domain.ModelRecord, error) {
	if c.ttl <= 0 {
		return c.source.ListModels(ctx, tag)
	}

	c.mu.Lock()
	entry, ok := c.entries[tag]
	c.mu.Unlock()
	if ok && c.clock.Now().Sub(entry.fetchedAt) < c.ttl {
		return append([]domain.ModelRecord(nil), entry.records...), nil
	}

	return c.refresh(ctx, tag)
}

// Warm refreshes every tag and reports all failures together.
func (c *CachedSource) Warm(ctx context.Context, tags []string) error {
	var err error
	for _, tag := range tags {
		if _, rErr := c.refresh(ctx, tag); rErr != nil {
			err = multierror.Append(err, fmt.Errorf("warm %s: %w", tag, rErr))
		}
	}
	return err
}

func (c *CachedSource) refresh(ctx context.Context, tag string) ([]domain.ModelRecord, error) {
	records, err := c.source.ListModels(ctx, tag)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[tag] = cacheEntry{records: records, fetchedAt: c.clock.Now()}
	c.mu.Unlock()

	return append([]domain.ModelRecord(nil), records...), nil
}
