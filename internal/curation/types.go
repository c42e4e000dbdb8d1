// Package curation selects, ranks, and diversifies a batch of candidate
// articles into a bounded personalized set. Strategies are interchangeable:
// a free heuristic scorer, or reasoning-service tiers that degrade to the
// heuristic path when unavailable, over budget, or failing.
package curation

import (
	"time"

	"github.com/abelbrown/curator/internal/feeds"
)

// Section names for curated output. "highlights" holds the top scorers;
// everything else lands in a category bucket or "general".
const (
	SectionHighlights = "highlights"
	SectionGeneral    = "general"
)

// categorySections is the fixed set of category-derived buckets
var categorySections = map[string]bool{
	"technology": true,
	"science":    true,
	"business":   true,
	"world":      true,
	"politics":   true,
}

// highlightBar is the minimum score for the highlights section
const highlightBar = 60.0

// ScoredCandidate is a candidate annotated by a curation strategy
type ScoredCandidate struct {
	feeds.Candidate
	Score      float64 // selection score, bounded [0,100]
	Reason     string  // human-readable trace of contributing factors
	Section    string  // display bucket, assigned by the pipeline
	Confidence float64 // 0-1
	AISummary  string  // optional, reasoning tiers only
}

// Metrics summarizes the quality of one curation run
type Metrics struct {
	MeanScore       float64        `json:"mean_score"`
	SectionCounts   map[string]int `json:"section_counts"`
	DistinctSources int            `json:"distinct_sources"`
}

// Result is the outcome of one curation run, read-only once produced
type Result struct {
	RunID          string            `json:"run_id"`
	Articles       []ScoredCandidate `json:"articles"`
	TotalProcessed int               `json:"total_processed"` // input count before filtering
	Method         string            `json:"method"`
	Elapsed        time.Duration     `json:"elapsed"`
	Metrics        Metrics           `json:"metrics"`
}

// computeMetrics derives run metrics from the selected articles
func computeMetrics(articles []ScoredCandidate) Metrics {
	m := Metrics{SectionCounts: make(map[string]int)}
	if len(articles) == 0 {
		return m
	}

	sources := make(map[string]bool)
	total := 0.0
	for _, a := range articles {
		total += a.Score
		m.SectionCounts[a.Section]++
		sources[a.Source.ID] = true
	}
	m.MeanScore = total / float64(len(articles))
	m.DistinctSources = len(sources)
	return m
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
