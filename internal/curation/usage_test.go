package curation

import (
	"testing"

	"github.com/abelbrown/curator/internal/brain"
)

func TestUsageTrackerCost(t *testing.T) {
	u := NewUsageTracker(10.0, 3.0, 15.0)

	u.Record(brain.Usage{InputTokens: 1_000_000, OutputTokens: 200_000})

	stats := u.Stats()
	if stats.Requests != 1 {
		t.Errorf("expected 1 request, got %d", stats.Requests)
	}
	want := 3.0 + 0.2*15.0
	if stats.EstimatedCost != want {
		t.Errorf("expected cost %f, got %f", want, stats.EstimatedCost)
	}
	if !u.WithinBudget() {
		t.Error("should be within a $10 budget after $6 of spend")
	}
}

func TestUsageTrackerBudgetBoundary(t *testing.T) {
	// Exactly at budget is over budget: the comparison is strict
	u := NewUsageTracker(3.0, 3.0, 0)
	u.Record(brain.Usage{InputTokens: 1_000_000})
	if u.WithinBudget() {
		t.Error("cost equal to budget must not be within budget")
	}

	u2 := NewUsageTracker(3.0, 3.0, 0)
	u2.Record(brain.Usage{InputTokens: 999_999})
	if !u2.WithinBudget() {
		t.Error("cost just below budget must be within budget")
	}
}

func TestUsageTrackerZeroBudget(t *testing.T) {
	u := NewUsageTracker(0, 0.15, 0.60)
	if u.WithinBudget() {
		t.Error("a zero budget permits no spend")
	}
}
