// Package corpus holds the reference frequency list: words ordered by
// real-world usage, looked up by 1-based rank.
package corpus

import (
	"strings"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Corpus maps words to their usage rank (1 = most frequent).
// It is built once and then only read; reads are safe for concurrent use.
type Corpus struct {
	trie    *patricia.Trie
	size    int
	maxRank int
	mu      sync.RWMutex
}

// New creates an empty corpus.
func New() *Corpus {
	return &Corpus{trie: patricia.NewTrie()}
}

// FromWords builds a corpus where each word's rank is its position + 1.
func FromWords(words []string) *Corpus {
	c := New()
	for i, w := range words {
		c.Add(w, i+1)
	}
	return c
}

// Add inserts word with the given rank. The first rank seen for a word wins,
// so duplicates further down a list never push a word's rank down.
func (c *Corpus) Add(word string, rank int) bool {
	word = normalize(word)
	if word == "" || rank < 1 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.trie.Insert(patricia.Prefix(word), rank) {
		return false
	}
	c.size++
	if rank > c.maxRank {
		c.maxRank = rank
	}
	return true
}

// Rank returns the 1-based rank of word, or false if it is not in the corpus.
func (c *Corpus) Rank(word string) (int, bool) {
	word = normalize(word)
	if word == "" {
		return 0, false
	}

	c.mu.RLock()
	item := c.trie.Get(patricia.Prefix(word))
	c.mu.RUnlock()

	rank, ok := item.(int)
	return rank, ok
}

// Has reports whether word is in the corpus. A Corpus doubles as the
// recognized-word lexicon for validity checks.
func (c *Corpus) Has(word string) bool {
	_, ok := c.Rank(word)
	return ok
}

// Len returns the number of distinct words.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// MaxRank returns the highest rank inserted.
func (c *Corpus) MaxRank() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxRank
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
