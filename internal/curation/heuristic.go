package curation

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/abelbrown/curator/internal/feeds"
	"github.com/abelbrown/curator/internal/prefs"
)

// Sub-score caps. The composite is the capped sum, itself capped at 100.
const (
	maxTopicRelevance = 40.0
	maxContentQuality = 20.0
	maxTrendingBonus  = 10.0
	maxFreshness      = 10.0
	trendingTermCap   = 6.0 // keyword contribution before recency is added
)

// highTrustSources are established outlets that earn the top credibility score
var highTrustSources = map[string]bool{
	"reuters":          true,
	"associated press": true,
	"ap news":          true,
	"bbc":              true,
	"bbc news":         true,
	"nature":           true,
	"science":          true,
	"the economist":    true,
}

// mediumTrustSources earn a moderate credibility score
var mediumTrustSources = map[string]bool{
	"hacker news":    true,
	"ars technica":   true,
	"the verge":      true,
	"techcrunch":     true,
	"wired":          true,
	"mit technology review": true,
}

// urgencyTerms signal trending or breaking coverage
var urgencyTerms = []string{
	"breaking", "urgent", "just in", "developing",
	"announced", "launches", "unveils", "report:",
}

// Scorer computes the heuristic composite score for candidates against
// a preference snapshot. The snapshot is read-only during scoring, so a
// single Scorer is safe for concurrent use.
type Scorer struct {
	Prefs *prefs.Preferences
	Now   time.Time
}

// NewScorer creates a scorer pinned to the current time
func NewScorer(p *prefs.Preferences) *Scorer {
	return &Scorer{Prefs: p, Now: time.Now()}
}

// Score computes the 0-100 composite for one candidate. The section is
// left empty; the selection pipeline assigns it. Absent optional fields
// contribute zero rather than failing.
func (s *Scorer) Score(c feeds.Candidate) ScoredCandidate {
	type factor struct {
		name  string
		value float64
	}
	var factors []factor

	add := func(name string, value float64) {
		if value > 0 {
			factors = append(factors, factor{name, value})
		}
	}

	add("topic relevance", s.topicRelevance(c))
	add("source credibility", sourceCredibility(c))
	add("content quality", contentQuality(c))
	add("trending", s.trendingBonus(c))
	add("freshness", s.freshness(c))
	add("diversity", diversitySeed(c))

	total := 0.0
	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		total += f.value
		parts = append(parts, fmt.Sprintf("%s: %.1f", f.name, f.value))
	}
	total = clampScore(total)

	scoreConf := total / 80
	if scoreConf > 1 {
		scoreConf = 1
	}
	factorConf := float64(len(factors)) / 5
	if factorConf > 1 {
		factorConf = 1
	}

	return ScoredCandidate{
		Candidate:  c,
		Score:      total,
		Reason:     strings.Join(parts, "; "),
		Confidence: (scoreConf + factorConf) / 2,
	}
}

// topicRelevance is the best topic match, capped at 40
func (s *Scorer) topicRelevance(c feeds.Candidate) float64 {
	if s.Prefs == nil {
		return 0
	}

	title := strings.ToLower(c.Title)
	haystack := title + " " + strings.ToLower(c.Excerpt) + " " +
		strings.ToLower(strings.Join(c.Tags, " ")) + " " + strings.ToLower(c.Category)
	tagSet := make(map[string]bool, len(c.Tags))
	for _, t := range c.Tags {
		tagSet[strings.ToLower(t)] = true
	}
	category := strings.ToLower(c.Category)

	best := 0.0
	for name, topic := range s.Prefs.Topics {
		if topic.InterestScore <= 0 {
			continue
		}

		score := 0.0
		for _, kw := range topic.Keywords {
			kw = strings.ToLower(kw)
			if kw == "" || !strings.Contains(haystack, kw) {
				continue
			}
			score += topic.InterestScore * 10
			if strings.Contains(title, kw) {
				score += 5
			}
			if tagSet[kw] {
				score += 3
			}
		}

		topicName := strings.ToLower(name)
		if category == topicName || tagSet[topicName] {
			score += topic.InterestScore * 15
		}

		if score > best {
			best = score
		}
	}

	if best > maxTopicRelevance {
		best = maxTopicRelevance
	}
	return best
}

// sourceCredibility is a fixed lookup, not preference-driven
func sourceCredibility(c feeds.Candidate) float64 {
	name := strings.ToLower(c.Source.Name)
	id := strings.ToLower(c.Source.ID)
	if highTrustSources[name] || highTrustSources[id] {
		return 15
	}
	if host := hostOf(c.URL); strings.HasSuffix(host, ".edu") || strings.HasSuffix(host, ".gov") {
		return 12
	}
	if mediumTrustSources[name] || mediumTrustSources[id] {
		return 10
	}
	return 5
}

func contentQuality(c feeds.Candidate) float64 {
	score := 0.0
	if l := len(c.Title); l >= 30 && l <= 100 {
		score += 5
	}
	if l := len(c.Excerpt); l >= 100 && l <= 300 {
		score += 5
	}
	if len(c.Tags) >= 2 {
		score += 3
	}
	if c.Author != "" {
		score += 2
	}
	if c.ReadMinutes >= 2 && c.ReadMinutes <= 10 {
		score += 5
	}
	return score
}

func (s *Scorer) trendingBonus(c feeds.Candidate) float64 {
	text := strings.ToLower(c.Title + " " + c.Excerpt)

	terms := 0.0
	for _, term := range urgencyTerms {
		terms += 2 * float64(strings.Count(text, term))
	}
	if terms > trendingTermCap {
		terms = trendingTermCap
	}

	score := terms
	age := s.Now.Sub(c.Published)
	if age < 2*time.Hour {
		score += 5
	} else if age < 6*time.Hour {
		score += 2
	}

	if score > maxTrendingBonus {
		score = maxTrendingBonus
	}
	return score
}

// freshness is a monotonic step function of article age
func (s *Scorer) freshness(c feeds.Candidate) float64 {
	age := s.Now.Sub(c.Published)
	switch {
	case age < time.Hour:
		return 10
	case age < 3*time.Hour:
		return 8
	case age < 6*time.Hour:
		return 6
	case age < 12*time.Hour:
		return 4
	case age < 24*time.Hour:
		return 2
	default:
		return 0
	}
}

// diversitySeed is a placeholder signal; real diversity enforcement
// happens in the selection pipeline
func diversitySeed(c feeds.Candidate) float64 {
	if len(c.Tags) > 3 {
		return 2
	}
	return 0
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
