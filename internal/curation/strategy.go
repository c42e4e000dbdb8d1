package curation

import (
	"context"

	"github.com/abelbrown/curator/internal/brain"
	"github.com/abelbrown/curator/internal/config"
	"github.com/abelbrown/curator/internal/feeds"
	"github.com/abelbrown/curator/internal/logging"
	"github.com/abelbrown/curator/internal/prefs"
)

// Tier names accepted by the factory
const (
	TierHeuristic = "heuristic"
	TierStandard  = "standard"
	TierPremium   = "premium"
)

// Strategy is one interchangeable curation algorithm
type Strategy interface {
	// Name returns the strategy label used in result metadata
	Name() string

	// Curate ranks and annotates candidates against the preference
	// snapshot, returning at most maxArticles
	Curate(ctx context.Context, candidates []feeds.Candidate, p *prefs.Preferences, maxArticles int) (*Result, error)

	// UsageStats reports accumulated spend (zero for free strategies)
	UsageStats() UsageStats

	// WithinBudget reports whether the strategy may still make paid calls
	WithinBudget() bool
}

// ForTier constructs the strategy for the requested tier. A paid tier
// with missing credentials degrades to the heuristic strategy; paid
// strategies are always wrapped in a Selector so callers never see an
// external failure.
func ForTier(tier string, cfg *config.Config) Strategy {
	heuristic := NewHeuristicStrategy()

	switch tier {
	case TierStandard:
		settings := cfg.Models.OpenAI
		if settings.APIKey == "" {
			logging.Warn("Standard tier requested without OpenAI credentials, using heuristic")
			return heuristic
		}
		provider := brain.NewOpenAIProvider(settings.APIKey, settings.Model)
		return NewSelector(NewAIStrategy(StandardTier(), provider, settings.MonthlyBudget), heuristic)

	case TierPremium:
		settings := cfg.Models.Anthropic
		if settings.APIKey == "" {
			logging.Warn("Premium tier requested without Anthropic credentials, using heuristic")
			return heuristic
		}
		provider := brain.NewClaudeProvider(settings.APIKey, settings.Model)
		return NewSelector(NewAIStrategy(PremiumTier(), provider, settings.MonthlyBudget), heuristic)

	case TierHeuristic, "":
		return heuristic

	default:
		logging.Warn("Unknown curation tier, using heuristic", "tier", tier)
		return heuristic
	}
}

// Selector wraps a paid strategy with the heuristic fallback. Budget
// exhaustion and any returned error route to the fallback so a valid
// result always comes back.
type Selector struct {
	primary  Strategy
	fallback Strategy
}

// NewSelector creates a selector over a primary strategy and fallback
func NewSelector(primary, fallback Strategy) *Selector {
	return &Selector{primary: primary, fallback: fallback}
}

func (s *Selector) Name() string {
	return s.primary.Name()
}

func (s *Selector) Curate(ctx context.Context, candidates []feeds.Candidate, p *prefs.Preferences, maxArticles int) (*Result, error) {
	if !s.primary.WithinBudget() {
		logging.Warn("Strategy over budget, falling back to heuristic", "strategy", s.primary.Name())
		return s.fallback.Curate(ctx, candidates, p, maxArticles)
	}

	result, err := s.primary.Curate(ctx, candidates, p, maxArticles)
	if err != nil {
		logging.Warn("Strategy failed, falling back to heuristic", "strategy", s.primary.Name(), "error", err)
		return s.fallback.Curate(ctx, candidates, p, maxArticles)
	}
	return result, nil
}

func (s *Selector) UsageStats() UsageStats {
	return s.primary.UsageStats()
}

func (s *Selector) WithinBudget() bool {
	return s.primary.WithinBudget()
}
