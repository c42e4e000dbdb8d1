package rss

import (
	"strings"
	"time"
	"unicode"

	"github.com/abelbrown/curator/internal/feeds"
	"github.com/mmcdole/gofeed"
)

// wordsPerMinute is the assumed reading speed for estimated read time
const wordsPerMinute = 200

// Source fetches candidates from an RSS/Atom feed
type Source struct {
	name     string
	url      string
	category string
	parser   *gofeed.Parser
}

// New creates a new RSS source
func New(name, url, category string) *Source {
	return &Source{
		name:     name,
		url:      url,
		category: category,
		parser:   gofeed.NewParser(),
	}
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Category() string {
	return s.category
}

func (s *Source) Fetch() ([]feeds.Candidate, error) {
	feed, err := s.parser.ParseURL(s.url)
	if err != nil {
		return nil, err
	}

	candidates := make([]feeds.Candidate, 0, len(feed.Items))
	now := time.Now()

	for _, entry := range feed.Items {
		published := now
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			published = *entry.UpdatedParsed
		}

		excerpt := strings.TrimSpace(entry.Description)
		if excerpt == "" && entry.Content != "" {
			excerpt = truncate(entry.Content, 300)
		}

		author := ""
		if entry.Author != nil {
			author = entry.Author.Name
		}

		var tags []string
		for _, c := range entry.Categories {
			if c = strings.TrimSpace(strings.ToLower(c)); c != "" {
				tags = append(tags, c)
			}
		}

		candidates = append(candidates, feeds.Candidate{
			ID:          feeds.CandidateID(entry.Link, entry.Title),
			Title:       entry.Title,
			URL:         entry.Link,
			Excerpt:     excerpt,
			Author:      author,
			Published:   published,
			Source:      feeds.SourceRef{ID: slug(s.name), Name: s.name},
			Category:    s.category,
			Tags:        tags,
			ReadMinutes: estimateReadMinutes(entry.Content, excerpt),
		})
	}

	return candidates, nil
}

// estimateReadMinutes guesses reading time from the longest text available
func estimateReadMinutes(content, excerpt string) int {
	text := content
	if text == "" {
		text = excerpt
	}
	words := len(strings.Fields(text))
	minutes := words / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return b.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
