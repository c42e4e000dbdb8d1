package curation

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/abelbrown/curator/internal/feeds"
)

func TestDedupeEmpty(t *testing.T) {
	if got := Dedupe(nil); len(got) != 0 {
		t.Errorf("expected empty output, got %d", len(got))
	}
	if got := Dedupe([]feeds.Candidate{}); len(got) != 0 {
		t.Errorf("expected empty output, got %d", len(got))
	}
}

func TestDedupeKeepsNewest(t *testing.T) {
	base := time.Now()
	candidates := []feeds.Candidate{
		{ID: "old", Title: "Big Merger Announced!", Published: base.Add(-3 * time.Hour)},
		{ID: "new", Title: "Big merger announced", Published: base.Add(-1 * time.Hour)},
	}

	got := Dedupe(candidates)
	if len(got) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(got))
	}
	if got[0].ID != "new" {
		t.Errorf("expected the newer duplicate to survive, got %q", got[0].ID)
	}
}

func TestDedupePunctuationAndCase(t *testing.T) {
	base := time.Now()
	// 5 candidates, 3 share a normalized title differing only by punctuation
	candidates := []feeds.Candidate{
		{ID: "a1", Title: "Markets rally on rate cut", Published: base.Add(-5 * time.Hour)},
		{ID: "a2", Title: "Markets Rally, on Rate Cut!", Published: base.Add(-2 * time.Hour)},
		{ID: "a3", Title: "Markets rally on rate-cut???", Published: base.Add(-1 * time.Hour)},
		{ID: "b", Title: "Storm hits the coast", Published: base.Add(-4 * time.Hour)},
		{ID: "c", Title: "New chip ships next month", Published: base.Add(-6 * time.Hour)},
	}

	got := Dedupe(candidates)
	if len(got) != 3 {
		t.Fatalf("expected 3 unique titles, got %d", len(got))
	}

	found := map[string]bool{}
	for _, c := range got {
		found[c.ID] = true
	}
	if !found["a3"] {
		t.Error("expected the most recent of the duplicate group (a3) to survive")
	}
	if found["a1"] || found["a2"] {
		t.Error("older duplicates should have been collapsed")
	}
	if !found["b"] || !found["c"] {
		t.Error("non-duplicates must survive")
	}
}

func TestDedupeIdempotent(t *testing.T) {
	base := time.Now()
	candidates := []feeds.Candidate{
		{ID: "a", Title: "One thing happened", Published: base.Add(-1 * time.Hour)},
		{ID: "b", Title: "One thing happened!!", Published: base.Add(-2 * time.Hour)},
		{ID: "c", Title: "Another thing entirely", Published: base.Add(-3 * time.Hour)},
	}

	once := Dedupe(candidates)
	twice := Dedupe(once)

	if len(once) != len(twice) {
		t.Fatalf("dedupe not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("dedupe not idempotent at %d: %q vs %q", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestDedupeKeyTruncation(t *testing.T) {
	long := "This is a very long headline that keeps going and going with extra detail"
	a := dedupeKey(long)
	b := dedupeKey(long + " part two")
	if a != b {
		t.Errorf("keys should match after truncation: %q vs %q", a, b)
	}
	if got := len([]rune(a)); got > dedupeKeyLen {
		t.Errorf("key exceeds %d chars: %d", dedupeKeyLen, got)
	}
}

func TestDedupeKeyMultibyteTruncation(t *testing.T) {
	// The cutoff counts characters, not bytes, and must never split a rune
	base := strings.Repeat("é", dedupeKeyLen)
	a := dedupeKey(base + " überlange schlagzeile")
	b := dedupeKey(base + " noch eine variante")

	if a != b {
		t.Errorf("keys sharing the first %d characters should match: %q vs %q", dedupeKeyLen, a, b)
	}
	if got := len([]rune(a)); got != dedupeKeyLen {
		t.Errorf("expected %d-character key, got %d", dedupeKeyLen, got)
	}
	if !utf8.ValidString(a) {
		t.Error("truncation split a rune")
	}
}
