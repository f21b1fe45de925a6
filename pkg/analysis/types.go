/*
Package analysis finds overused words in a text.

A text is tokenized and counted, each candidate word is checked for
eligibility, and its observed rate is compared to the rate a Zipf curve over
a reference corpus predicts:

	expected   = k / rank
	multiplier = floor((count / totalWords) / expected)

Words seen at least three times whose multiplier exceeds five are reported,
worst first, at most ten of them.

Everything here is synchronous and side-effect free; synonym retrieval lives
in the synonyms package.
*/
package analysis

import (
	"strings"
)

// WordOccurrence is a normalized word and how often it appears in a text.
type WordOccurrence struct {
	Word  string
	Count int
}

// ScoredWord is one overused word.
// Synonyms is nil until the synonym service (or cache) has supplied them.
type ScoredWord struct {
	Word              string   `msgpack:"word" json:"word"`
	NumFound          int      `msgpack:"numFound" json:"numFound"`
	ExpectedFrequency float64  `msgpack:"expectedFrequency" json:"expectedFrequency"`
	Multiplier        int      `msgpack:"multiplier" json:"multiplier"`
	Synonyms          []string `msgpack:"synonyms,omitempty" json:"synonyms,omitempty"`
}

// OverusedList is sorted by Multiplier, highest first.
type OverusedList []ScoredWord

// Words returns the words in list order.
func (l OverusedList) Words() []string {
	words := make([]string, len(l))
	for i, w := range l {
		words[i] = w.Word
	}
	return words
}

// Clone returns a copy that shares no slices with l.
func (l OverusedList) Clone() OverusedList {
	if l == nil {
		return nil
	}
	out := make(OverusedList, len(l))
	for i, w := range l {
		out[i] = w
		if w.Synonyms != nil {
			out[i].Synonyms = append([]string{}, w.Synonyms...)
		}
	}
	return out
}

// IgnoreSet holds words the user has excluded from scoring.
type IgnoreSet map[string]struct{}

// NewIgnoreSet builds a set from words, lowercased.
func NewIgnoreSet(words ...string) IgnoreSet {
	s := make(IgnoreSet, len(words))
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add inserts word.
func (s IgnoreSet) Add(word string) {
	if w := normalizeWord(word); w != "" {
		s[w] = struct{}{}
	}
}

// Remove deletes word.
func (s IgnoreSet) Remove(word string) {
	delete(s, normalizeWord(word))
}

// Contains reports whether word is ignored. A nil set ignores nothing.
func (s IgnoreSet) Contains(word string) bool {
	_, ok := s[normalizeWord(word)]
	return ok
}

// Clone returns an independent copy.
func (s IgnoreSet) Clone() IgnoreSet {
	out := make(IgnoreSet, len(s))
	for w := range s {
		out[w] = struct{}{}
	}
	return out
}

// Words returns the ignored words in no particular order.
func (s IgnoreSet) Words() []string {
	words := make([]string, 0, len(s))
	for w := range s {
		words = append(words, w)
	}
	return words
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
