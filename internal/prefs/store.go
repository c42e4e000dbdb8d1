package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/abelbrown/curator/internal/logging"
)

var (
	// ErrNotLoaded is returned by Get before a successful Load
	ErrNotLoaded = errors.New("preferences not loaded")

	// ErrUnavailable wraps read/parse/write failures of the backing
	// document. Fatal to the current operation, never retried here.
	ErrUnavailable = errors.New("preferences unavailable")
)

// Store owns the preference document: lazy load, in-memory cache,
// serialized updates persisted synchronously as a whole document.
// Updates are copy-on-write so snapshots handed out by Get stay
// stable while a curation run is scoring against them.
type Store struct {
	path string

	mu    sync.Mutex
	prefs *Preferences
}

// NewStore creates a store backed by the given document path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Ensure writes the default document if none exists yet.
// Intended for first-run setup, before Load.
func (s *Store) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return s.persist(Default())
}

// Load reads the document from disk and caches it.
// A document that cannot be read or parsed is fatal to the run.
func (s *Store) Load() (*Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, s.path, err)
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrUnavailable, s.path, err)
	}

	p.Clamp()
	s.prefs = &p
	logging.Debug("Preferences loaded", "topics", len(p.Topics), "authors", len(p.Authors))
	return s.prefs, nil
}

// Get returns the cached preferences. Callers must treat the result
// as read-only; mutation goes through Update.
func (s *Store) Get() (*Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs == nil {
		return nil, ErrNotLoaded
	}
	return s.prefs, nil
}

// Update deep-merges the partial update into the cached document,
// clamps every score to [0,1], persists the full result, and only
// then swaps the cache. Concurrent updates serialize on the mutex so
// merges never interleave.
func (s *Store) Update(u Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs == nil {
		return ErrNotLoaded
	}
	return s.applyLocked(u)
}

// UpdateWith derives the partial update from the current document and
// applies it, all under one lock acquisition. Callers whose update
// depends on current values (feedback increments) go through here so
// concurrent read-modify-write cycles see each other's writes. fn must
// not retain or mutate its argument.
func (s *Store) UpdateWith(fn func(p *Preferences) Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs == nil {
		return ErrNotLoaded
	}
	return s.applyLocked(fn(s.prefs))
}

// applyLocked merges, clamps, persists, then swaps the cache.
// Caller holds the lock.
func (s *Store) applyLocked(u Update) error {
	next := s.prefs.Copy()
	next.merge(u)
	next.Clamp()

	if err := s.persist(next); err != nil {
		return err
	}

	s.prefs = next
	return nil
}

// persist writes the whole document atomically. Caller holds the lock.
func (s *Store) persist(p *Preferences) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrUnavailable, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrUnavailable, s.path, err)
	}
	return nil
}
