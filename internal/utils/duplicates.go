package utils

import (
	"strings"
)

// SeenFilter drops case-insensitive duplicates from a stream of words.
// Not safe for concurrent use.
type SeenFilter struct {
	seenWords map[string]bool
}

// NewSeenFilter creates a new filter instance that will exclude the given words
func NewSeenFilter(exclude ...string) *SeenFilter {
	seenWords := make(map[string]bool, len(exclude))
	for _, w := range exclude {
		seenWords[strings.ToLower(w)] = true
	}
	return &SeenFilter{seenWords: seenWords}
}

// ShouldInclude checks if a word should be included in results (not a duplicate)
// Returns true if the word should be included, false if it's a duplicate
func (f *SeenFilter) ShouldInclude(word string) bool {
	lowerWord := strings.ToLower(word)
	if f.seenWords[lowerWord] {
		return false
	}
	f.seenWords[lowerWord] = true
	return true
}

// Dedupe returns words with empty strings and case-insensitive duplicates
// removed, keeping first occurrences in order. The input is not modified.
func Dedupe(words []string, exclude ...string) []string {
	filter := NewSeenFilter(exclude...)
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || !filter.ShouldInclude(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}
