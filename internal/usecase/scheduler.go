package usecase

import (
	"context"
	"log/slog"
	"time"

	"ModelScout/internal/ports"
)

// Warmer refreshes cached listings for a set of tags.
type Warmer interface {
	Warm(ctx context.Context, tags []string) error
}

// CacheWarmer wires the interval driver with the listing cache.
type CacheWarmer struct {
	driver ports.Scheduler
	cache  Warmer
	tags   []string
	logger *slog.Logger
}

// NewCacheWarmer returns a helper to start/stop the recurring warm-up.
func NewCacheWarmer(driver ports.Scheduler, cache Warmer, tags []string, logger *slog.Logger) *CacheWarmer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CacheWarmer{driver: driver, cache: cache, tags: tags, logger: logger}
}

// Start registers the warm-up with the provided scheduler.
func (w *CacheWarmer) Start(ctx context.Context) error {
	if w.driver == nil || w.cache == nil || len(w.tags) == 0 {
		return nil
	}

	job := func(trigger time.Time) {
		if err := w.cache.Warm(ctx, w.tags); err != nil {
			w.logger.Warn("cache warm-up incomplete", "trigger", trigger, "err", err)
			return
		}
		w.logger.Debug("cache warmed", "trigger", trigger, "tags", len(w.tags))
	}

	return w.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (w *CacheWarmer) Stop(ctx context.Context) error {
	if w.driver == nil {
		return nil
	}

	return w.driver.Stop(ctx)
}
