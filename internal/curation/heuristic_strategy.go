package curation

import (
	"context"
	"time"

	"github.com/abelbrown/curator/internal/feeds"
	"github.com/abelbrown/curator/internal/logging"
	"github.com/abelbrown/curator/internal/prefs"
	"github.com/abelbrown/curator/internal/work"
	"github.com/google/uuid"
)

// HeuristicStrategy is the free tier: local multi-factor scoring plus
// the shared selection pipeline. Always within budget.
type HeuristicStrategy struct {
	pool *work.Pool
}

// NewHeuristicStrategy creates the free strategy
func NewHeuristicStrategy() *HeuristicStrategy {
	return &HeuristicStrategy{pool: work.NewPool(0)}
}

func (h *HeuristicStrategy) Name() string {
	return TierHeuristic
}

func (h *HeuristicStrategy) Curate(ctx context.Context, candidates []feeds.Candidate, p *prefs.Preferences, maxArticles int) (*Result, error) {
	start := time.Now()

	if len(candidates) == 0 {
		logging.Warn("Heuristic curation called with no candidates")
		return &Result{
			RunID:   uuid.NewString(),
			Method:  TierHeuristic,
			Elapsed: time.Since(start),
			Metrics: computeMetrics(nil),
		}, nil
	}

	// Each candidate scores independently against the read-only
	// preference snapshot, so scoring fans out across workers.
	scorer := NewScorer(p)
	scored := make([]ScoredCandidate, len(candidates))
	tasks := make([]work.Task, len(candidates))
	for i := range candidates {
		i := i
		tasks[i] = func() error {
			scored[i] = scorer.Score(candidates[i])
			return nil
		}
	}
	h.pool.Run(ctx, tasks)

	selected := NewPipeline().Select(scored, p, maxArticles)

	logging.Info("Heuristic curation complete",
		"input", len(candidates),
		"selected", len(selected),
		"elapsed", time.Since(start))

	return &Result{
		RunID:          uuid.NewString(),
		Articles:       selected,
		TotalProcessed: len(candidates),
		Method:         TierHeuristic,
		Elapsed:        time.Since(start),
		Metrics:        computeMetrics(selected),
	}, nil
}

func (h *HeuristicStrategy) UsageStats() UsageStats {
	return UsageStats{}
}

func (h *HeuristicStrategy) WithinBudget() bool {
	return true
}
