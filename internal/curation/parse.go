package curation

import (
	"encoding/json"
	"errors"
	"strings"
)

// selection is one entry of the reasoning service's reply
type selection struct {
	ID        string  `json:"id"`
	Score     float64 `json:"score"`
	Section   string  `json:"section"`
	Rationale string  `json:"rationale"`
	Summary   string  `json:"summary,omitempty"`
}

// errNoSelectionList means no well-formed JSON array was found anywhere
// in the response; the caller treats the whole call as failed.
var errNoSelectionList = errors.New("no selection list found in response")

// parseSelections extracts the selection array from a reasoning
// response. Services wrap the payload in prose or markdown fences, so
// every '[' is tried as a potential array start until one decodes.
func parseSelections(content string) ([]selection, error) {
	for i := 0; i < len(content); i++ {
		if content[i] != '[' {
			continue
		}
		end := matchBracket(content, i)
		if end < 0 {
			continue
		}

		var selections []selection
		if err := json.Unmarshal([]byte(content[i:end+1]), &selections); err != nil {
			continue
		}
		if len(selections) == 0 {
			continue
		}

		// A decoded array of the wrong shape yields empty ids
		valid := selections[:0]
		for _, s := range selections {
			if strings.TrimSpace(s.ID) != "" {
				valid = append(valid, s)
			}
		}
		if len(valid) > 0 {
			return valid, nil
		}
	}
	return nil, errNoSelectionList
}

// matchBracket returns the index of the ']' closing the '[' at start,
// honoring JSON string literals and escapes. Returns -1 if unbalanced.
func matchBracket(s string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
