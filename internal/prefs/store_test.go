package prefs

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "preferences.json"))
}

func TestStoreGetBeforeLoad(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Get(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
	if err := s.Update(Update{}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Load(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path).Load(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestStoreEnsureSeedsDefaults(t *testing.T) {
	s := tempStore(t)
	if err := s.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	p, err := s.Load()
	if err != nil {
		t.Fatalf("load after ensure: %v", err)
	}
	if len(p.Topics) == 0 {
		t.Error("seeded document should carry default topics")
	}

	// A second Ensure must not clobber modifications
	score := 0.99
	if err := s.Update(Update{Topics: map[string]TopicUpdate{"technology": {InterestScore: &score}}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Ensure(); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	p2, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if p2.Topics["technology"].InterestScore != 0.99 {
		t.Error("ensure overwrote an existing document")
	}
}

func TestStoreUpdatePersistsAndClamps(t *testing.T) {
	s := tempStore(t)
	if err := s.Ensure(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(); err != nil {
		t.Fatal(err)
	}

	over := 1.5
	if err := s.Update(Update{Topics: map[string]TopicUpdate{"science": {InterestScore: &over}}}); err != nil {
		t.Fatalf("update: %v", err)
	}

	p, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	if p.Topics["science"].InterestScore != 1 {
		t.Errorf("update should clamp to 1, got %f", p.Topics["science"].InterestScore)
	}

	// Fresh store sees the persisted state
	p2, err := NewStore(s.path).Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if p2.Topics["science"].InterestScore != 1 {
		t.Error("update did not persist")
	}
}

func TestStoreSnapshotsStableAcrossUpdates(t *testing.T) {
	s := tempStore(t)
	if err := s.Ensure(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(); err != nil {
		t.Fatal(err)
	}

	before, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	wasScore := before.Topics["technology"].InterestScore

	low := 0.05
	if err := s.Update(Update{Topics: map[string]TopicUpdate{"technology": {InterestScore: &low}}}); err != nil {
		t.Fatal(err)
	}

	if before.Topics["technology"].InterestScore != wasScore {
		t.Error("update mutated a snapshot handed out earlier")
	}
	after, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	if after.Topics["technology"].InterestScore != 0.05 {
		t.Error("cache did not swap to the updated document")
	}
}

func TestStoreUpdateWithBeforeLoad(t *testing.T) {
	s := tempStore(t)
	err := s.UpdateWith(func(p *Preferences) Update { return Update{} })
	if !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestStoreUpdateWithSerializesReadModifyWrite(t *testing.T) {
	s := tempStore(t)
	if err := s.Ensure(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(); err != nil {
		t.Fatal(err)
	}

	before, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	base := before.Topics["technology"].InterestScore

	// Each update reads the current value and adds to it; without
	// serialized read-modify-write, increments overwrite each other.
	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.UpdateWith(func(p *Preferences) Update {
				next := p.Topics["technology"].InterestScore + 0.01
				return Update{Topics: map[string]TopicUpdate{"technology": {InterestScore: &next}}}
			})
			if err != nil {
				t.Errorf("update: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	want := base + n*0.01
	if math.Abs(got.Topics["technology"].InterestScore-want) > 1e-9 {
		t.Errorf("increments lost: got %f, want %f", got.Topics["technology"].InterestScore, want)
	}
}

func TestStoreConcurrentUpdatesNoneLost(t *testing.T) {
	s := tempStore(t)
	if err := s.Ensure(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(); err != nil {
		t.Fatal(err)
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := Update{Authors: map[string]float64{fmt.Sprintf("author-%d", i): 0.6}}
			if err := s.Update(u); err != nil {
				t.Errorf("update %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	p, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if _, ok := p.Authors[fmt.Sprintf("author-%d", i)]; !ok {
			t.Errorf("author-%d lost in concurrent updates", i)
		}
	}
}
