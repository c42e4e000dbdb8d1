// Package feedback converts approve/reject signals on curated articles
// into bounded preference adjustments.
package feedback

import (
	"fmt"
	"strings"

	"github.com/abelbrown/curator/internal/feeds"
	"github.com/abelbrown/curator/internal/logging"
	"github.com/abelbrown/curator/internal/prefs"
)

// Signal is a discrete judgment on one curated article
type Signal string

const (
	SignalApprove Signal = "approve"
	SignalReject  Signal = "reject"
)

// adjustment is the fixed magnitude of one feedback step
const adjustment = 0.05

// neutralAuthorScore seeds an author first seen through feedback
const neutralAuthorScore = 0.5

// Adapter applies feedback signals to the preference store. All
// effects of one signal go out as a single update so the store's
// atomicity guarantee covers the whole adjustment.
type Adapter struct {
	store *prefs.Store
}

// NewAdapter creates an adapter over the preference store
func NewAdapter(store *prefs.Store) *Adapter {
	return &Adapter{store: store}
}

// Apply adjusts topic, subtopic, and author scores for the candidate.
// The partial update is derived from current values inside the store's
// lock, so concurrent signals stack instead of overwriting each other.
// Each effect is clamped to [0,1] by the store after the merge.
func (a *Adapter) Apply(c feeds.Candidate, sig Signal) error {
	delta := adjustment
	if sig == SignalReject {
		delta = -adjustment
	} else if sig != SignalApprove {
		return fmt.Errorf("unknown feedback signal %q", sig)
	}

	category := strings.ToLower(c.Category)

	err := a.store.UpdateWith(func(p *prefs.Preferences) prefs.Update {
		u := prefs.Update{
			Topics:  make(map[string]prefs.TopicUpdate),
			Authors: make(map[string]float64),
		}

		// Category topic interest, only if the topic already exists
		if topic, ok := p.Topics[category]; ok {
			score := topic.InterestScore + delta
			u.Topics[category] = prefs.TopicUpdate{InterestScore: &score}
		}

		// Subtopics matching the candidate's tags, across all topics
		for name, topic := range p.Topics {
			if len(topic.Subtopics) == 0 {
				continue
			}
			var subs map[string]float64
			for _, tag := range c.Tags {
				tag = strings.ToLower(tag)
				if current, ok := topic.Subtopics[tag]; ok {
					if subs == nil {
						subs = make(map[string]float64)
					}
					subs[tag] = current + delta
				}
			}
			if subs != nil {
				tu := u.Topics[name]
				tu.Subtopics = subs
				u.Topics[name] = tu
			}
		}

		// Author score, created at neutral if absent
		if c.Author != "" {
			current := neutralAuthorScore
			if author, ok := p.Authors[c.Author]; ok {
				current = author.Score
			}
			u.Authors[c.Author] = current + delta
		}

		return u
	})
	if err != nil {
		return fmt.Errorf("apply feedback: %w", err)
	}

	logging.Info("Feedback applied",
		"article", c.ID,
		"signal", string(sig),
		"category", category,
		"author", c.Author)
	return nil
}
