package curation

import (
	"sort"
	"strings"
	"unicode"

	"github.com/abelbrown/curator/internal/feeds"
)

// dedupeKeyLen bounds the normalized-title key so near-identical
// headlines with trailing qualifiers collapse together
const dedupeKeyLen = 50

// Dedupe collapses near-identical candidates by normalized title,
// keeping the most recently published representative of each group.
// Pure: the input slice is not modified.
func Dedupe(candidates []feeds.Candidate) []feeds.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	// Newest first, so the first candidate per key is the freshest
	ordered := make([]feeds.Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Published.After(ordered[j].Published)
	})

	seen := make(map[string]bool, len(ordered))
	out := make([]feeds.Candidate, 0, len(ordered))
	for _, c := range ordered {
		key := dedupeKey(c.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// dedupeKey normalizes a title: lowercase, punctuation stripped,
// whitespace collapsed, truncated to the first 50 characters.
func dedupeKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	key := strings.Join(strings.Fields(b.String()), " ")
	// Truncate on runes, not bytes, so multibyte titles keep the full
	// 50-character key and never split a rune
	if runes := []rune(key); len(runes) > dedupeKeyLen {
		key = string(runes[:dedupeKeyLen])
	}
	return key
}
