package prefs

// Update is a partial preference change. Maps merge per key, set
// pointers replace scalars, non-nil slices replace whole arrays.
type Update struct {
	Topics  map[string]TopicUpdate
	Authors map[string]float64
	Reading *ReadingPatterns
	Content *ContentPreferences
}

// TopicUpdate is a partial change to one topic
type TopicUpdate struct {
	InterestScore *float64
	Keywords      []string           // replaces the keyword list when non-nil
	Subtopics     map[string]float64 // merges per subtopic
}

// merge applies the update to p in place. Callers clamp afterward.
func (p *Preferences) merge(u Update) {
	if p.Topics == nil {
		p.Topics = make(map[string]TopicPreference)
	}
	for name, tu := range u.Topics {
		t := p.Topics[name]
		if tu.InterestScore != nil {
			t.InterestScore = *tu.InterestScore
		}
		if tu.Keywords != nil {
			t.Keywords = append([]string(nil), tu.Keywords...)
		}
		if len(tu.Subtopics) > 0 {
			if t.Subtopics == nil {
				t.Subtopics = make(map[string]float64, len(tu.Subtopics))
			}
			for sub, score := range tu.Subtopics {
				t.Subtopics[sub] = score
			}
		}
		p.Topics[name] = t
	}

	if len(u.Authors) > 0 && p.Authors == nil {
		p.Authors = make(map[string]AuthorPreference, len(u.Authors))
	}
	for name, score := range u.Authors {
		p.Authors[name] = AuthorPreference{Score: score}
	}

	if u.Reading != nil {
		p.Reading = *u.Reading
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
}
