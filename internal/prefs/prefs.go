// Package prefs holds the user's topic, author, and reading-pattern
// preferences and the persistent store that owns them.
package prefs

// TopicPreference describes interest in one topic
type TopicPreference struct {
	InterestScore float64            `json:"interest_score"`
	Keywords      []string           `json:"keywords,omitempty"`
	Subtopics     map[string]float64 `json:"subtopics,omitempty"`
}

// AuthorPreference describes interest in one author
type AuthorPreference struct {
	Score float64 `json:"score"`
}

// ContentPreferences holds length and content-type weights.
// Descriptive only: the scorer does not enforce these.
type ContentPreferences struct {
	LengthWeights map[string]float64 `json:"length_weights,omitempty"`
	TypeWeights   map[string]float64 `json:"type_weights,omitempty"`
}

// ReadingPatterns configures selection behavior
type ReadingPatterns struct {
	PreferredCategories    []string `json:"preferred_categories_order,omitempty"`
	MaxArticlesPerCategory int      `json:"max_articles_per_category"`
	DiversityVsFocus       float64  `json:"diversity_vs_focus"` // 0 = focus, 1 = diversity
}

// Preferences is the full preference document
type Preferences struct {
	Topics  map[string]TopicPreference  `json:"topics"`
	Content ContentPreferences          `json:"content_preferences"`
	Reading ReadingPatterns             `json:"reading_patterns"`
	Authors map[string]AuthorPreference `json:"authors"`
}

// Default returns a starting preference document for first runs
func Default() *Preferences {
	return &Preferences{
		Topics: map[string]TopicPreference{
			"technology": {
				InterestScore: 0.7,
				Keywords:      []string{"software", "ai", "programming", "hardware"},
				Subtopics:     map[string]float64{"ai": 0.8, "open source": 0.6},
			},
			"science": {
				InterestScore: 0.5,
				Keywords:      []string{"research", "study", "discovery"},
			},
		},
		Reading: ReadingPatterns{
			PreferredCategories:    []string{"technology", "science"},
			MaxArticlesPerCategory: 4,
			DiversityVsFocus:       0.5,
		},
		Authors: map[string]AuthorPreference{},
	}
}

// Clamp bounds every score field to [0,1]. Called after every merge.
func (p *Preferences) Clamp() {
	for name, t := range p.Topics {
		t.InterestScore = clamp01(t.InterestScore)
		for sub, score := range t.Subtopics {
			t.Subtopics[sub] = clamp01(score)
		}
		p.Topics[name] = t
	}
	for name, a := range p.Authors {
		a.Score = clamp01(a.Score)
		p.Authors[name] = a
	}
	p.Reading.DiversityVsFocus = clamp01(p.Reading.DiversityVsFocus)
}

// Copy returns a deep copy of the preferences
func (p *Preferences) Copy() *Preferences {
	out := &Preferences{
		Topics:  make(map[string]TopicPreference, len(p.Topics)),
		Authors: make(map[string]AuthorPreference, len(p.Authors)),
		Content: ContentPreferences{},
		Reading: p.Reading,
	}
	for name, t := range p.Topics {
		ct := TopicPreference{InterestScore: t.InterestScore}
		if t.Keywords != nil {
			ct.Keywords = append([]string(nil), t.Keywords...)
		}
		if t.Subtopics != nil {
			ct.Subtopics = make(map[string]float64, len(t.Subtopics))
			for k, v := range t.Subtopics {
				ct.Subtopics[k] = v
			}
		}
		out.Topics[name] = ct
	}
	for name, a := range p.Authors {
		out.Authors[name] = a
	}
	if p.Content.LengthWeights != nil {
		out.Content.LengthWeights = make(map[string]float64, len(p.Content.LengthWeights))
		for k, v := range p.Content.LengthWeights {
			out.Content.LengthWeights[k] = v
		}
	}
	if p.Content.TypeWeights != nil {
		out.Content.TypeWeights = make(map[string]float64, len(p.Content.TypeWeights))
		for k, v := range p.Content.TypeWeights {
			out.Content.TypeWeights[k] = v
		}
	}
	if p.Reading.PreferredCategories != nil {
		out.Reading.PreferredCategories = append([]string(nil), p.Reading.PreferredCategories...)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
