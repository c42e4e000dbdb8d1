package curation

import (
	"sort"
	"strings"
	"time"

	"github.com/abelbrown/curator/internal/prefs"
)

// Quality floors applied before selection. A user who favors focus
// over diversity gets the stricter floor.
const (
	floorFocused = 40.0
	floorDiverse = 25.0
)

// defaultMaxPerCategory guards against a zero-valued reading pattern
const defaultMaxPerCategory = 3

// Pipeline filters, diversifies, re-boosts, ranks, and sections scored
// candidates. All sorts are stable so ties resolve by input order.
type Pipeline struct {
	Now time.Time
}

// NewPipeline creates a pipeline pinned to the current time
func NewPipeline() *Pipeline {
	return &Pipeline{Now: time.Now()}
}

// Select runs the full pipeline and returns at most target articles,
// ranked by final score with sections assigned.
func (pl *Pipeline) Select(scored []ScoredCandidate, p *prefs.Preferences, target int) []ScoredCandidate {
	if target <= 0 || len(scored) == 0 {
		return nil
	}

	kept := pl.applyFloor(scored, p)
	kept = pl.diversify(kept, p)
	kept = pl.reboost(kept)

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	if len(kept) > target {
		kept = kept[:target]
	}

	pl.assignSections(kept)
	return kept
}

// applyFloor drops candidates below the active quality threshold
func (pl *Pipeline) applyFloor(scored []ScoredCandidate, p *prefs.Preferences) []ScoredCandidate {
	floor := floorDiverse
	if p != nil && p.Reading.DiversityVsFocus < 0.5 {
		floor = floorFocused
	}

	out := make([]ScoredCandidate, 0, len(scored))
	for _, sc := range scored {
		if sc.Score >= floor {
			out = append(out, sc)
		}
	}
	return out
}

// diversify caps each category at max_articles_per_category, keeping
// the best of each group. Cross-group order is re-established later.
func (pl *Pipeline) diversify(scored []ScoredCandidate, p *prefs.Preferences) []ScoredCandidate {
	maxPer := defaultMaxPerCategory
	if p != nil && p.Reading.MaxArticlesPerCategory >= 1 {
		maxPer = p.Reading.MaxArticlesPerCategory
	}

	groups := make(map[string][]ScoredCandidate)
	var order []string
	for _, sc := range scored {
		cat := strings.ToLower(sc.Category)
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], sc)
	}

	out := make([]ScoredCandidate, 0, len(scored))
	for _, cat := range order {
		group := groups[cat]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})
		if len(group) > maxPer {
			group = group[:maxPer]
		}
		out = append(out, group...)
	}
	return out
}

// reboost adds a tiered recency bonus on top of the existing score.
// Freshness matters more at selection time than at scoring time.
func (pl *Pipeline) reboost(scored []ScoredCandidate) []ScoredCandidate {
	for i := range scored {
		age := pl.Now.Sub(scored[i].Published)
		var bonus float64
		switch {
		case age < time.Hour:
			bonus = 5
		case age < 3*time.Hour:
			bonus = 3
		case age < 6*time.Hour:
			bonus = 1
		}
		scored[i].Score = clampScore(scored[i].Score + bonus)
	}
	return scored
}

// assignSections tags each survivor with a display bucket without
// altering the final ranking order: the top 3 above the highlight bar
// go to "highlights", the rest to their category bucket or "general".
func (pl *Pipeline) assignSections(ranked []ScoredCandidate) {
	byScore := make([]*ScoredCandidate, len(ranked))
	for i := range ranked {
		byScore[i] = &ranked[i]
	}
	sort.SliceStable(byScore, func(i, j int) bool {
		return byScore[i].Score > byScore[j].Score
	})

	highlights := 0
	for _, sc := range byScore {
		if highlights < 3 && sc.Score > highlightBar {
			sc.Section = SectionHighlights
			highlights++
			continue
		}
		sc.Section = sectionFor(sc.Category)
	}
}

// sectionFor maps a category to its display bucket
func sectionFor(category string) string {
	cat := strings.ToLower(category)
	if categorySections[cat] {
		return cat
	}
	return SectionGeneral
}
