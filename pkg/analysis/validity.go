package analysis

import (
	"unicode/utf8"

	"github.com/bastiangx/synonymy/internal/utils"
)

// Lexicon answers whether a word is a recognized word.
type Lexicon interface {
	Has(word string) bool
}

// Filter decides whether a word may be scored at all.
type Filter struct {
	// MinLength is the shortest eligible word, in runes.
	MinLength int
	// Lexicon, if set, must recognize the word. Leave it nil when it would
	// be the corpus itself: the estimator's rank lookup covers that.
	Lexicon Lexicon
}

// Eligible reports whether word passes the syntax checks, is recognized, and
// is not in ignore. It is meant to run before the corpus rank lookup.
func (f Filter) Eligible(word string, ignore IgnoreSet) bool {
	if utf8.RuneCountInString(word) < f.MinLength {
		return false
	}
	if !utils.IsValidInput(word) {
		return false
	}
	if ignore.Contains(word) {
		return false
	}
	if f.Lexicon != nil && !f.Lexicon.Has(word) {
		return false
	}
	return true
}
