package analysis

import (
	"strings"
	"unicode"

	"github.com/bastiangx/synonymy/internal/utils"
)

// StopWords are common function words never scored.
var StopWords = toSet([]string{
	"a", "an", "the", "and", "or", "but", "nor", "so", "yet",
	"to", "in", "of", "on", "for", "with", "as", "at", "by", "from", "into",
	"onto", "upon", "about", "above", "below", "under", "over", "after",
	"before", "between", "through", "during", "without", "within", "against",
	"among", "around", "across", "along", "toward", "towards", "off", "out", "up", "down",
	"is", "are", "was", "were", "be", "been", "being", "am",
	"do", "does", "did", "doing", "done",
	"have", "has", "had", "having",
	"can", "could", "should", "would", "may", "might", "must", "will", "shall",
	"i", "me", "my", "mine", "myself", "we", "us", "our", "ours", "ourselves",
	"you", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself", "she", "her", "hers", "herself",
	"it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"this", "that", "these", "those", "who", "whom", "whose", "which", "what",
	"if", "then", "else", "than", "because", "while", "when", "where", "why", "how",
	"not", "no", "only", "very", "too", "just", "also",
	"all", "any", "both", "each", "few", "more", "most", "other", "some", "such",
	"own", "same", "here", "there", "again", "further", "once",
	"i'm", "i've", "i'd", "i'll", "you're", "you've", "you'd", "you'll",
	"he's", "she's", "it's", "we're", "we've", "they're", "they've",
	"that's", "there's", "what's", "let's",
	"isn't", "aren't", "wasn't", "weren't", "don't", "doesn't", "didn't",
	"can't", "couldn't", "won't", "wouldn't", "shouldn't", "haven't", "hasn't", "hadn't",
})

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// IsStopWord reports whether word (already lowercased) is a stop word.
func IsStopWord(word string) bool {
	_, ok := StopWords[word]
	return ok
}

// Count extracts word tokens from text and counts them.
// Tokens are lowercased and stripped of surrounding punctuation; tokens
// containing digits and stop words are dropped. Results are in order of first
// appearance, so identical input always yields identical output.
func Count(text string) []WordOccurrence {
	if text == "" {
		return []WordOccurrence{}
	}

	index := make(map[string]int)
	var out []WordOccurrence

	for _, raw := range strings.FieldsFunc(text, isSeparator) {
		word := normalizeToken(raw)
		if word == "" || IsStopWord(word) {
			continue
		}
		if i, seen := index[word]; seen {
			out[i].Count++
			continue
		}
		index[word] = len(out)
		out = append(out, WordOccurrence{Word: word, Count: 1})
	}

	if out == nil {
		return []WordOccurrence{}
	}
	return out
}

// CountWords returns the number of whitespace-separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !isApostrophe(r)
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

// normalizeToken lowercases a raw token, folds curly apostrophes, trims
// quote marks at the edges and drops a possessive "'s".
func normalizeToken(raw string) string {
	if utils.ContainsNumbers(raw) {
		return ""
	}
	word := strings.ToLower(strings.ReplaceAll(raw, "’", "'"))
	word = strings.Trim(word, "'")
	if strings.HasSuffix(word, "'s") && !IsStopWord(word) {
		word = strings.TrimSuffix(word, "'s")
	}
	return word
}
