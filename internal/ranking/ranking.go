package ranking

import (
	"cmp"
	"runtime"
	"slices"

	"github.com/karune-connect/matcher/internal/logger"
	"github.com/karune-connect/matcher/internal/needs"
	"github.com/karune-connect/matcher/internal/scoring"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UnknownDistanceKm ranks needs without a resolvable distance behind every
// resolved one within the same score.
const UnknownDistanceKm = 9999.0

type Ranker struct {
	engine  *scoring.Engine
	workers int
	logger  *zap.Logger
}

func NewRanker(engine *scoring.Engine, log *zap.Logger) *Ranker {
	return &Ranker{
		engine:  engine,
		workers: runtime.GOMAXPROCS(0),
		logger:  logger.WithFields(log),
	}
}

// WithWorkers limits how many needs are scored concurrently. Values below 1 are ignored.
func (r *Ranker) WithWorkers(n int) *Ranker {
	if n > 0 {
		r.workers = n
	}
	return r
}

// Rank scores every need for profile and orders them by score descending,
// then by distance ascending. Ties keep input order.
// Without a profile the needs are returned unscored in input order.
func (r *Ranker) Rank(items []*needs.Need, profile *needs.Profile, role needs.Role) *Recommendations {
	recs := &Recommendations{Items: make([]*Recommendation, 0, len(items))}

	if profile == nil {
		r.logger.Info("no profile given, returning needs unranked", zap.Int("needs", len(items)))
		for _, need := range items {
			recs.Items = append(recs.Items, &Recommendation{Need: need})
		}
		return recs
	}

	log := logger.WithMatchFields(r.logger, string(role), profile.ID)

	scorer, _ := r.engine.ScorerFor(role)
	results := make([]scoring.Result, len(items))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, need := range items {
		if need == nil {
			continue
		}
		g.Go(func() error {
			results[i] = scorer.Score(need, profile)
			return nil
		})
	}
	// Scoring cannot fail.
	_ = g.Wait()

	for i, need := range items {
		if need == nil {
			continue
		}
		recs.Items = append(recs.Items, &Recommendation{Need: need, Result: &results[i]})
	}

	slices.SortStableFunc(recs.Items, compare)

	log.Debug("ranked needs", zap.Int("needs", len(recs.Items)))

	return recs
}

func compare(a, b *Recommendation) int {
	if c := cmp.Compare(b.Result.Score, a.Result.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.sortDistance(), b.sortDistance())
}
