// Package synonyms keeps the client-side synonym cache and decides which words
// still need a remote lookup.
package synonyms

import (
	"strings"

	"github.com/bastiangx/synonymy/internal/utils"
	"github.com/bastiangx/synonymy/pkg/analysis"
)

// Cache maps a lowercased word to its synonyms. An empty list means the
// service knows the word and has nothing to offer; it is still a cache hit.
//
// A Cache value is treated as immutable once shared: Merge returns a new one.
type Cache map[string][]string

// Lookup returns the cached synonyms for word.
func (c Cache) Lookup(word string) ([]string, bool) {
	syns, ok := c[normalize(word)]
	return syns, ok
}

// Len returns the number of cached words.
func (c Cache) Len() int {
	return len(c)
}

// Clone returns a deep copy of c.
func (c Cache) Clone() Cache {
	out := make(Cache, len(c))
	for w, syns := range c {
		out[w] = append([]string{}, syns...)
	}
	return out
}

// Merge returns a new cache holding every entry of old plus the entries of
// fresh whose keys old does not have yet. Existing keys are never
// overwritten. Neither argument is modified.
func Merge(old, fresh Cache) Cache {
	out := make(Cache, len(old)+len(fresh))
	for w, syns := range old {
		out[w] = syns
	}
	for w, syns := range fresh {
		key := normalize(w)
		if key == "" {
			continue
		}
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = utils.Dedupe(syns, key)
	}
	return out
}

// Partition splits list into the words the cache can already serve and the
// words that need a lookup. The returned enriched list is a copy of list in
// the same order, with Synonyms filled in for every cached word; uncached
// words keep nil Synonyms and are also returned in uncached.
func Partition(list analysis.OverusedList, cache Cache) (analysis.OverusedList, []analysis.ScoredWord) {
	enriched := list.Clone()
	var uncached []analysis.ScoredWord

	for i := range enriched {
		if syns, ok := cache.Lookup(enriched[i].Word); ok {
			enriched[i].Synonyms = append([]string{}, syns...)
			continue
		}
		enriched[i].Synonyms = nil
		uncached = append(uncached, enriched[i])
	}
	return enriched, uncached
}

// Attach fills in Synonyms for every word of list found in cache, in place.
func Attach(list analysis.OverusedList, cache Cache) {
	for i := range list {
		if list[i].Synonyms != nil {
			continue
		}
		if syns, ok := cache.Lookup(list[i].Word); ok {
			list[i].Synonyms = append([]string{}, syns...)
		}
	}
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
