package curation

import (
	"sync"

	"github.com/abelbrown/curator/internal/brain"
)

// UsageStats is a snapshot of a paid strategy's spend
type UsageStats struct {
	Requests      int     `json:"requests"`
	EstimatedCost float64 `json:"estimated_cost"`
	MonthlyBudget float64 `json:"monthly_budget"`
}

// UsageTracker accumulates request counts and estimated cost for one
// paid strategy instance. Never decremented; billing-cycle resets are
// external to this engine.
type UsageTracker struct {
	mu            sync.Mutex
	requests      int
	estimatedCost float64
	monthlyBudget float64

	inputPricePerMTok  float64
	outputPricePerMTok float64
}

// NewUsageTracker creates a tracker with the given budget and per-token
// price table (USD per million tokens)
func NewUsageTracker(monthlyBudget, inputPricePerMTok, outputPricePerMTok float64) *UsageTracker {
	return &UsageTracker{
		monthlyBudget:      monthlyBudget,
		inputPricePerMTok:  inputPricePerMTok,
		outputPricePerMTok: outputPricePerMTok,
	}
}

// Record accumulates the cost of one successful call from reported usage
func (u *UsageTracker) Record(usage brain.Usage) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.requests++
	u.estimatedCost += float64(usage.InputTokens)/1e6*u.inputPricePerMTok +
		float64(usage.OutputTokens)/1e6*u.outputPricePerMTok
}

// WithinBudget reports whether estimated cumulative cost is strictly
// below the configured monthly budget
func (u *UsageTracker) WithinBudget() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.estimatedCost < u.monthlyBudget
}

// Stats returns a snapshot of the tracker
func (u *UsageTracker) Stats() UsageStats {
	u.mu.Lock()
	defer u.mu.Unlock()
	return UsageStats{
		Requests:      u.requests,
		EstimatedCost: u.estimatedCost,
		MonthlyBudget: u.monthlyBudget,
	}
}
