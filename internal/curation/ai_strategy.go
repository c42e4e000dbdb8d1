package curation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/abelbrown/curator/internal/brain"
	"github.com/abelbrown/curator/internal/feeds"
	"github.com/abelbrown/curator/internal/logging"
	"github.com/abelbrown/curator/internal/prefs"
	"github.com/google/uuid"
)

// TierConfig bounds a paid strategy's external-call cost and payload:
// a recency window, minimum candidate quality, and a cap on how many
// candidates go downstream. The cheaper tier is tighter on all three.
type TierConfig struct {
	Name          string
	MaxCandidates int
	MaxAge        time.Duration
	MinTitleLen   int
	MinExcerptLen int
	ScoreScale    float64 // the scale the prompt requests (10 or 100)

	// USD per million tokens
	InputPricePerMTok  float64
	OutputPricePerMTok float64
}

// StandardTier is the cheaper reasoning tier
func StandardTier() TierConfig {
	return TierConfig{
		Name:               TierStandard,
		MaxCandidates:      30,
		MaxAge:             36 * time.Hour,
		MinTitleLen:        15,
		MinExcerptLen:      40,
		ScoreScale:         10,
		InputPricePerMTok:  0.15,
		OutputPricePerMTok: 0.60,
	}
}

// PremiumTier is the higher-quality reasoning tier
func PremiumTier() TierConfig {
	return TierConfig{
		Name:               TierPremium,
		MaxCandidates:      50,
		MaxAge:             48 * time.Hour,
		MinTitleLen:        10,
		MinExcerptLen:      20,
		ScoreScale:         100,
		InputPricePerMTok:  3.0,
		OutputPricePerMTok: 15.0,
	}
}

// AIStrategy delegates ranking to an external reasoning service.
// External failures never surface: the strategy degrades to a local
// weighting that mimics the service's judgment.
type AIStrategy struct {
	tier     TierConfig
	provider brain.Provider
	usage    *UsageTracker
}

// NewAIStrategy creates a paid strategy over the given provider
func NewAIStrategy(tier TierConfig, provider brain.Provider, monthlyBudget float64) *AIStrategy {
	return &AIStrategy{
		tier:     tier,
		provider: provider,
		usage:    NewUsageTracker(monthlyBudget, tier.InputPricePerMTok, tier.OutputPricePerMTok),
	}
}

func (s *AIStrategy) Name() string {
	return s.tier.Name
}

func (s *AIStrategy) UsageStats() UsageStats {
	return s.usage.Stats()
}

func (s *AIStrategy) WithinBudget() bool {
	return s.usage.WithinBudget()
}

func (s *AIStrategy) Curate(ctx context.Context, candidates []feeds.Candidate, p *prefs.Preferences, maxArticles int) (*Result, error) {
	start := time.Now()

	if len(candidates) == 0 {
		logging.Warn("Curation called with no candidates", "strategy", s.tier.Name)
		return &Result{
			RunID:   uuid.NewString(),
			Method:  s.tier.Name,
			Elapsed: time.Since(start),
			Metrics: computeMetrics(nil),
		}, nil
	}

	pre := s.prefilter(candidates)
	if len(pre) == 0 {
		// Everything aged or thinned out before the external call
		return s.localFallback(candidates, p, maxArticles, start), nil
	}

	resp, err := s.provider.Generate(ctx, brain.Request{
		SystemPrompt: curationSystemPrompt,
		UserPrompt:   s.buildPrompt(pre, p, maxArticles),
		MaxTokens:    3000,
	})
	if err != nil {
		logging.Warn("Reasoning call failed, using local fallback",
			"strategy", s.tier.Name, "error", err)
		return s.localFallback(candidates, p, maxArticles, start), nil
	}

	s.usage.Record(resp.Usage)

	selections, err := parseSelections(resp.Content)
	if err != nil {
		logging.Warn("No parsable selection list in response, using local fallback",
			"strategy", s.tier.Name, "error", err)
		return s.localFallback(candidates, p, maxArticles, start), nil
	}

	articles := s.applySelections(pre, selections, maxArticles)

	logging.Info("Reasoning curation complete",
		"strategy", s.tier.Name,
		"input", len(candidates),
		"sent", len(pre),
		"selected", len(articles),
		"elapsed", time.Since(start))

	return &Result{
		RunID:          uuid.NewString(),
		Articles:       articles,
		TotalProcessed: len(candidates),
		Method:         s.tier.Name,
		Elapsed:        time.Since(start),
		Metrics:        computeMetrics(articles),
	}, nil
}

// prefilter bounds the payload sent to the reasoning service: recency
// window, minimum title/excerpt length, newest-first cap.
func (s *AIStrategy) prefilter(candidates []feeds.Candidate) []feeds.Candidate {
	cutoff := time.Now().Add(-s.tier.MaxAge)

	kept := make([]feeds.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Published.Before(cutoff) {
			continue
		}
		if len(c.Title) < s.tier.MinTitleLen || len(c.Excerpt) < s.tier.MinExcerptLen {
			continue
		}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Published.After(kept[j].Published)
	})
	if len(kept) > s.tier.MaxCandidates {
		kept = kept[:s.tier.MaxCandidates]
	}
	return kept
}

const curationSystemPrompt = `You are a personal news curator. You select the most relevant, ` +
	`high-quality articles for one reader based on their interests and reading habits. ` +
	`You respond with a JSON array and nothing else.`

// buildPrompt embeds the reader's top-weighted topics, reading
// patterns, and a bounded candidate list into one instruction.
func (s *AIStrategy) buildPrompt(candidates []feeds.Candidate, p *prefs.Preferences, maxArticles int) string {
	var b strings.Builder

	b.WriteString("Reader interests (weight 0-1):\n")
	for _, t := range topTopics(p, 5) {
		fmt.Fprintf(&b, "- %s (%.2f), keywords: %s\n", t.name, t.score, strings.Join(t.keywords, ", "))
	}

	if p != nil {
		fmt.Fprintf(&b, "\nReading patterns: preferred categories %v, at most %d per category, diversity preference %.2f (0=focused, 1=diverse)\n",
			p.Reading.PreferredCategories, p.Reading.MaxArticlesPerCategory, p.Reading.DiversityVsFocus)
	}

	b.WriteString("\nCandidate articles:\n")
	now := time.Now()
	for _, c := range candidates {
		age := now.Sub(c.Published).Round(time.Minute)
		excerpt := c.Excerpt
		if len(excerpt) > 200 {
			excerpt = excerpt[:200] + "..."
		}
		fmt.Fprintf(&b, "id=%s | %s | source=%s | category=%s | age=%s | %s\n",
			c.ID, c.Title, c.Source.Name, c.Category, age, excerpt)
	}

	fmt.Fprintf(&b, "\nSelect up to %d articles. Respond with a JSON array of objects: "+
		`{"id": "<candidate id>", "score": <0-%.0f relevance>, "section": "<highlights|technology|science|business|world|politics|general>", "rationale": "<one sentence>", "summary": "<optional two-sentence summary>"}`,
		maxArticles, s.tier.ScoreScale)

	return b.String()
}

// applySelections converts the service's selections into scored
// candidates on the canonical 0-100 scale. Unknown ids are silently
// dropped. Order is score-descending, truncated to maxArticles, with
// the highlights section capped at 3.
func (s *AIStrategy) applySelections(candidates []feeds.Candidate, selections []selection, maxArticles int) []ScoredCandidate {
	byID := make(map[string]feeds.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	articles := make([]ScoredCandidate, 0, len(selections))
	for _, sel := range selections {
		c, ok := byID[sel.ID]
		if !ok {
			logging.Debug("Selection references unknown candidate, dropped", "id", sel.ID)
			continue
		}

		score := sel.Score
		if s.tier.ScoreScale == 10 {
			score *= 10
		}
		score = clampScore(score)

		// Trust the service's section label only if it is a known
		// bucket; otherwise derive from the candidate's category
		section := strings.ToLower(strings.TrimSpace(sel.Section))
		if section != SectionHighlights && !categorySections[section] {
			section = sectionFor(c.Category)
		}

		articles = append(articles, ScoredCandidate{
			Candidate:  c,
			Score:      score,
			Reason:     sel.Rationale,
			Section:    section,
			Confidence: score / 100,
			AISummary:  sel.Summary,
		})
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Score > articles[j].Score
	})
	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}

	// The service may be generous with highlights; enforce the cap
	highlights := 0
	for i := range articles {
		if articles[i].Section != SectionHighlights {
			continue
		}
		if highlights < 3 && articles[i].Score > highlightBar {
			highlights++
		} else {
			articles[i].Section = sectionFor(articles[i].Category)
		}
	}

	return articles
}

// localFallback mimics the reasoning service's weighting (topic
// keyword matches, source trust, recency) using only local
// computation, then runs the shared pipeline for sectioning.
func (s *AIStrategy) localFallback(candidates []feeds.Candidate, p *prefs.Preferences, maxArticles int, start time.Time) *Result {
	now := time.Now()

	scored := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		topic := mimicTopicScore(c, p)
		trust := sourceCredibility(c)
		recency := mimicRecencyScore(now.Sub(c.Published))
		total := clampScore(topic + trust + recency)

		scored[i] = ScoredCandidate{
			Candidate: c,
			Score:     total,
			Reason: fmt.Sprintf("local fallback; topic match: %.1f; source trust: %.1f; recency: %.1f",
				topic, trust, recency),
			Confidence: 0.4, // degraded path, lower confidence by definition
		}
	}

	selected := NewPipeline().Select(scored, p, maxArticles)
	method := s.tier.Name + "-fallback"

	logging.Info("Local fallback curation complete",
		"strategy", s.tier.Name,
		"input", len(candidates),
		"selected", len(selected),
		"elapsed", time.Since(start))

	return &Result{
		RunID:          uuid.NewString(),
		Articles:       selected,
		TotalProcessed: len(candidates),
		Method:         method,
		Elapsed:        time.Since(start),
		Metrics:        computeMetrics(selected),
	}
}

// mimicTopicScore approximates the reasoning service's topic weighting
func mimicTopicScore(c feeds.Candidate, p *prefs.Preferences) float64 {
	if p == nil {
		return 0
	}
	haystack := strings.ToLower(c.Title + " " + c.Excerpt + " " + c.Category + " " + strings.Join(c.Tags, " "))

	best := 0.0
	for _, topic := range p.Topics {
		if topic.InterestScore <= 0 {
			continue
		}
		score := 0.0
		for _, kw := range topic.Keywords {
			if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
				score += topic.InterestScore * 12
			}
		}
		if score > best {
			best = score
		}
	}
	if best > 45 {
		best = 45
	}
	return best
}

// mimicRecencyScore is a tiered recency weight for the fallback path
func mimicRecencyScore(age time.Duration) float64 {
	switch {
	case age < 2*time.Hour:
		return 20
	case age < 6*time.Hour:
		return 12
	case age < 12*time.Hour:
		return 8
	case age < 24*time.Hour:
		return 4
	default:
		return 0
	}
}

type topTopic struct {
	name     string
	score    float64
	keywords []string
}

// topTopics returns the n highest-weighted topics, best first
func topTopics(p *prefs.Preferences, n int) []topTopic {
	if p == nil {
		return nil
	}
	topics := make([]topTopic, 0, len(p.Topics))
	for name, t := range p.Topics {
		topics = append(topics, topTopic{name: name, score: t.InterestScore, keywords: t.Keywords})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].score != topics[j].score {
			return topics[i].score > topics[j].score
		}
		return topics[i].name < topics[j].name
	})
	if len(topics) > n {
		topics = topics[:n]
	}
	return topics
}
