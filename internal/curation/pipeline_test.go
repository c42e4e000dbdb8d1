package curation

import (
	"testing"
	"time"

	"github.com/abelbrown/curator/internal/feeds"
	"github.com/abelbrown/curator/internal/prefs"
)

// old keeps candidates outside every recency-boost window so pipeline
// tests exercise exactly the scores they set up
var old = time.Now().Add(-72 * time.Hour)

func scored(id, category string, score float64) ScoredCandidate {
	return ScoredCandidate{
		Candidate: feeds.Candidate{
			ID:        id,
			Title:     "title " + id,
			Category:  category,
			Published: old,
			Source:    feeds.SourceRef{ID: "src-" + id, Name: "Source " + id},
		},
		Score: score,
	}
}

func pipelinePrefs(diversity float64, maxPer int) *prefs.Preferences {
	return &prefs.Preferences{
		Reading: prefs.ReadingPatterns{
			DiversityVsFocus:       diversity,
			MaxArticlesPerCategory: maxPer,
		},
	}
}

func TestSelectRespectsTarget(t *testing.T) {
	pl := NewPipeline()
	var in []ScoredCandidate
	for i := 0; i < 10; i++ {
		in = append(in, scored(string(rune('a'+i)), "technology", 50+float64(i)))
	}

	got := pl.Select(in, pipelinePrefs(0.7, 20), 4)
	if len(got) != 4 {
		t.Fatalf("expected 4 articles, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("ranking not descending at %d: %f > %f", i, got[i].Score, got[i-1].Score)
		}
	}
}

func TestSelectFocusedFloor(t *testing.T) {
	pl := NewPipeline()
	in := []ScoredCandidate{
		scored("low", "technology", 30),
		scored("high", "technology", 55),
	}

	// Focused reader: floor is 40, the 30-scorer drops
	got := pl.Select(in, pipelinePrefs(0.3, 5), 10)
	if len(got) != 1 || got[0].ID != "high" {
		t.Fatalf("focused floor should drop the 30-scorer, got %d articles", len(got))
	}

	// Diverse reader: floor is 25, both survive
	got = pl.Select(in, pipelinePrefs(0.7, 5), 10)
	if len(got) != 2 {
		t.Fatalf("diverse floor should keep both, got %d articles", len(got))
	}
}

func TestSelectCategoryCap(t *testing.T) {
	pl := NewPipeline()
	in := []ScoredCandidate{
		scored("t1", "technology", 90),
		scored("t2", "technology", 85),
		scored("t3", "technology", 80),
		scored("t4", "technology", 75),
		scored("s1", "science", 70),
	}

	got := pl.Select(in, pipelinePrefs(0.7, 2), 10)

	counts := map[string]int{}
	for _, sc := range got {
		counts[sc.Category]++
	}
	if counts["technology"] != 2 {
		t.Errorf("expected 2 technology articles, got %d", counts["technology"])
	}
	if counts["science"] != 1 {
		t.Errorf("expected the science article to survive, got %d", counts["science"])
	}

	// The best of the capped group wins
	found := map[string]bool{}
	for _, sc := range got {
		found[sc.ID] = true
	}
	if !found["t1"] || !found["t2"] {
		t.Error("category cap should keep the highest scorers of the group")
	}
}

func TestSelectZeroMaxPerCategoryUsesDefault(t *testing.T) {
	pl := NewPipeline()
	var in []ScoredCandidate
	for i := 0; i < 6; i++ {
		in = append(in, scored(string(rune('a'+i)), "technology", 80))
	}

	got := pl.Select(in, pipelinePrefs(0.7, 0), 10)
	if len(got) != defaultMaxPerCategory {
		t.Errorf("zero-valued cap should fall back to default %d, got %d", defaultMaxPerCategory, len(got))
	}
}

func TestSelectSections(t *testing.T) {
	pl := NewPipeline()
	in := []ScoredCandidate{
		scored("a", "technology", 90),
		scored("b", "science", 85),
		scored("c", "business", 70),
		scored("d", "world", 65),
		scored("e", "cooking", 62),
		scored("f", "science", 45),
	}

	got := pl.Select(in, pipelinePrefs(0.7, 3), 10)
	if len(got) != 6 {
		t.Fatalf("expected all 6 to survive, got %d", len(got))
	}

	// Top 3 above the bar land in highlights
	for i := 0; i < 3; i++ {
		if got[i].Section != SectionHighlights {
			t.Errorf("rank %d (score %f) should be a highlight, got %q", i, got[i].Score, got[i].Section)
		}
	}
	// Fourth-best is above the bar but past the highlight cap
	if got[3].Section != "world" {
		t.Errorf("expected category section %q, got %q", "world", got[3].Section)
	}
	// Unknown category buckets to general
	if got[4].Section != SectionGeneral {
		t.Errorf("unknown category should bucket to general, got %q", got[4].Section)
	}
	if got[5].Section != "science" {
		t.Errorf("below-bar article keeps its category section, got %q", got[5].Section)
	}
}

func TestSelectHighlightsNeedScore(t *testing.T) {
	pl := NewPipeline()
	in := []ScoredCandidate{
		scored("a", "technology", 55),
		scored("b", "science", 50),
	}

	got := pl.Select(in, pipelinePrefs(0.7, 3), 10)
	for _, sc := range got {
		if sc.Section == SectionHighlights {
			t.Errorf("no article beats the highlight bar, yet %q is a highlight", sc.ID)
		}
	}
}

func TestSelectStableTies(t *testing.T) {
	pl := NewPipeline()
	in := []ScoredCandidate{
		scored("first", "technology", 50),
		scored("second", "science", 50),
		scored("third", "business", 50),
	}

	got := pl.Select(in, pipelinePrefs(0.7, 3), 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].ID != want {
			t.Errorf("tie order not stable at %d: expected %q, got %q", i, want, got[i].ID)
		}
	}
}

func TestSelectRecencyReboost(t *testing.T) {
	now := time.Now()
	pl := &Pipeline{Now: now}

	fresh := scored("fresh", "technology", 50)
	fresh.Published = now.Add(-30 * time.Minute)
	stale := scored("stale", "science", 52)

	got := pl.Select([]ScoredCandidate{stale, fresh}, pipelinePrefs(0.7, 3), 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	// 50 + 5 fresh-hour bonus beats 52
	if got[0].ID != "fresh" {
		t.Errorf("recency boost should promote the fresh article, got %q first", got[0].ID)
	}
	if got[0].Score != 55 {
		t.Errorf("expected boosted score 55, got %f", got[0].Score)
	}
}

func TestSelectEmptyAndZeroTarget(t *testing.T) {
	pl := NewPipeline()
	if got := pl.Select(nil, nil, 5); got != nil {
		t.Errorf("nil input should yield nil, got %v", got)
	}
	if got := pl.Select([]ScoredCandidate{scored("a", "technology", 90)}, nil, 0); got != nil {
		t.Errorf("zero target should yield nil, got %v", got)
	}
}
