package feeds

import (
	"sync"

	"github.com/abelbrown/curator/internal/logging"
)

// Aggregator fetches candidates from multiple sources in parallel.
// Sources fail independently: a dead feed is logged and skipped, never
// propagated to the caller.
type Aggregator struct {
	sources []Source
}

// NewAggregator creates an aggregator over the given sources
func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{sources: sources}
}

// AddSource registers an additional source
func (a *Aggregator) AddSource(s Source) {
	a.sources = append(a.sources, s)
}

// FetchAll fetches every source concurrently and returns the combined
// candidate list. Partial failures are filtered out, not propagated.
func (a *Aggregator) FetchAll() []Candidate {
	type result struct {
		name       string
		candidates []Candidate
		err        error
	}

	results := make(chan result, len(a.sources))
	var wg sync.WaitGroup

	for _, src := range a.sources {
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			items, err := s.Fetch()
			results <- result{name: s.Name(), candidates: items, err: err}
		}(src)
	}

	wg.Wait()
	close(results)

	var all []Candidate
	for r := range results {
		if r.err != nil {
			logging.Warn("Source fetch failed", "source", r.name, "error", r.err)
			continue
		}
		logging.Debug("Source fetched", "source", r.name, "count", len(r.candidates))
		all = append(all, r.candidates...)
	}

	return all
}
