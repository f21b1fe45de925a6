package synonyms

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/synonymy/internal/logger"
	"github.com/bastiangx/synonymy/pkg/analysis"
)

// LookupItem is one word sent to the synonym service.
type LookupItem struct {
	Word              string  `json:"word"`
	Multiplier        int     `json:"multiplier"`
	NumFound          int     `json:"numFound"`
	ExpectedFrequency float64 `json:"expectedFrequency"`
}

// Lookup fetches synonyms for a batch of words in one request.
// The result may omit words the service does not know.
type Lookup interface {
	Synonyms(ctx context.Context, items []LookupItem) (map[string][]string, error)
}

// LookupError reports a failed remote lookup. It is never fatal: the
// overused list is still produced without the missing synonyms.
type LookupError struct {
	Words []string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("synonym lookup for %d words: %v", len(e.Words), e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Coordinator attaches synonyms to an overused list, asking the remote
// service only for words the cache does not have.
type Coordinator struct {
	lookup Lookup
	logger *log.Logger
}

// NewCoordinator creates a coordinator over lookup. lookup may be nil, in
// which case only cached synonyms are attached.
func NewCoordinator(lookup Lookup) *Coordinator {
	return &Coordinator{
		lookup: lookup,
		logger: logger.New("synonyms"),
	}
}

// SetLogger replaces the coordinator's logger.
func (c *Coordinator) SetLogger(l *log.Logger) {
	c.logger = l
}

// Enrich returns a copy of list with synonyms attached and the cache to keep
// afterwards. At most one lookup is made, and none when every word is cached.
// On lookup failure the returned cache is the input cache and err is a
// *LookupError; the list is still usable.
func (c *Coordinator) Enrich(ctx context.Context, list analysis.OverusedList, cache Cache) (analysis.OverusedList, Cache, error) {
	enriched, uncached := Partition(list, cache)
	wordsServed.WithLabelValues("cache").Add(float64(len(enriched) - len(uncached)))

	if len(uncached) == 0 {
		lookupsSkipped.Inc()
		return enriched, cache, nil
	}
	if c.lookup == nil {
		return enriched, cache, nil
	}

	items := make([]LookupItem, len(uncached))
	words := make([]string, len(uncached))
	for i, w := range uncached {
		items[i] = LookupItem{
			Word:              w.Word,
			Multiplier:        w.Multiplier,
			NumFound:          w.NumFound,
			ExpectedFrequency: w.ExpectedFrequency,
		}
		words[i] = w.Word
	}

	fetched, err := c.lookup.Synonyms(ctx, items)
	if err != nil {
		lookupsTotal.WithLabelValues("error").Inc()
		if errors.Is(err, context.Canceled) {
			c.logger.Debug("synonym lookup cancelled", "words", len(words))
		} else {
			c.logger.Warn("synonym lookup failed", "words", len(words), "err", err)
		}
		return enriched, cache, &LookupError{Words: words, Err: err}
	}

	// keep only what was asked for; anything missing stays uncached
	byKey := make(map[string][]string, len(fetched))
	for k, syns := range fetched {
		byKey[normalize(k)] = syns
	}
	fresh := make(Cache, len(words))
	for _, w := range words {
		if syns, ok := byKey[normalize(w)]; ok {
			fresh[normalize(w)] = syns
		}
	}
	if len(fresh) < len(words) {
		lookupsTotal.WithLabelValues("partial").Inc()
		c.logger.Debugf("synonym service returned %d of %d words", len(fresh), len(words))
	} else {
		lookupsTotal.WithLabelValues("ok").Inc()
	}
	wordsServed.WithLabelValues("remote").Add(float64(len(fresh)))

	merged := Merge(cache, fresh)
	Attach(enriched, merged)
	return enriched, merged, nil
}
