// Package ranker scores model listings by freshness and popularity.
package ranker

import (
	"sort"
	"time"

	"github.com/juju/clock"

	"ModelScout/internal/domain"
)

const (
	// DefaultFreshnessWindowDays is the maximum age of an eligible model.
	DefaultFreshnessWindowDays = 180
	// DefaultMinLikes is the minimum like count of an eligible model.
	DefaultMinLikes = 200

	likeWeight     = 2.0
	downloadWeight = 0.01
	day            = 24 * time.Hour
)

// Options tunes the eligibility filters. Values are used as given, so a
// zero MinLikes disables the like filter and a zero FreshnessWindowDays only
// admits models created at or after "now".
type Options struct {
	FreshnessWindowDays int
	MinLikes            int64
}

// DefaultOptions returns the 180 day window and the 200 like floor.
func DefaultOptions() Options {
	return Options{
		FreshnessWindowDays: DefaultFreshnessWindowDays,
		MinLikes:            DefaultMinLikes,
	}
}

// Ranker filters and orders model records. It holds no per-call state.
type Ranker struct {
	clock  clock.Clock
	window time.Duration
	min    int64
}

// New builds a Ranker reading "now" from clk (wall clock when nil).
func New(clk clock.Clock, opts Options) *Ranker {
	if clk == nil {
		clk = clock.WallClock
	}
	if opts.FreshnessWindowDays < 0 {
		opts.FreshnessWindowDays = 0
	}
	if opts.MinLikes < 0 {
		opts.MinLikes = 0
	}
	return &Ranker{
		clock:  clk,
		window: time.Duration(opts.FreshnessWindowDays) * day,
		min:    opts.MinLikes,
	}
}

// Rank drops stale, unpopular and undated records, scores the rest and
// returns at most limit results ordered by descending score. Equal scores
// keep their input order.
func (r *Ranker) Rank(records []domain.ModelRecord, limit int) []domain.RankedResult {
	if limit <= 0 || len(records) == 0 {
		return []domain.RankedResult{}
	}

	now := r.clock.Now()
	scored := make([]domain.RankedResult, 0, len(records))
	for _, rec := range records {
		createdAt, ok := parseCreatedAt(rec.CreatedAt)
		if !ok {
			continue
		}
		age := now.Sub(createdAt)
		if age > r.window || rec.Likes < r.min {
			continue
		}

		scored = append(scored, domain.RankedResult{
			ID:                 rec.ID,
			Downloads:          rec.Downloads,
			Likes:              rec.Likes,
			Score:              Score(rec.Likes, rec.Downloads, age),
			CanonicalReference: domain.CanonicalReference(rec.ID),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// Score computes (likes*2 + downloads*0.01) / ageDays where ageDays counts
// whole days and never drops below one.
func Score(likes, downloads int64, age time.Duration) float64 {
	return (float64(likes)*likeWeight + float64(downloads)*downloadWeight) / float64(AgeDays(age))
}

// AgeDays floors age to whole days with a minimum of one.
func AgeDays(age time.Duration) int64 {
	days := int64(age / day)
	if days < 1 {
		return 1
	}
	return days
}

func parseCreatedAt(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
