package feeds

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// SourceRef identifies where a candidate came from
type SourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"` // "Hacker News", "Ars Technica"
}

// Candidate represents a single normalized article eligible for curation.
// Immutable once produced by the aggregator.
type Candidate struct {
	ID          string    `json:"id"` // stable hash of URL+title
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Excerpt     string    `json:"excerpt"`
	Author      string    `json:"author,omitempty"`
	Published   time.Time `json:"published_at"`
	Source      SourceRef `json:"source"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
	ReadMinutes int       `json:"read_minutes"`
}

// CandidateID derives the stable candidate ID from URL and title
func CandidateID(url, title string) string {
	sum := sha256.Sum256([]byte(url + "|" + title))
	return fmt.Sprintf("%x", sum)[:16]
}

// Source is the interface all article sources implement
type Source interface {
	// Name returns human-readable source name
	Name() string

	// Category returns the category tag applied to fetched candidates
	Category() string

	// Fetch retrieves latest candidates from this source
	Fetch() ([]Candidate, error)
}
