package analysis

import (
	"math"
	"sort"
)

// Scoring defaults.
const (
	DefaultMinOccurrences = 3
	DefaultMinMultiplier  = 5
	DefaultMaxResults     = 10
	DefaultMinWordLength  = 3
)

// Scorer ranks words by how far their observed rate exceeds the expected one.
type Scorer struct {
	Filter    Filter
	Estimator Estimator

	MinOccurrences int
	// MinMultiplier is exclusive: a word needs Multiplier > MinMultiplier.
	MinMultiplier int
	MaxResults    int
}

// Score builds the OverusedList for the given occurrences.
// totalWords <= 0 yields an empty list.
func (s Scorer) Score(occurrences []WordOccurrence, totalWords int, ignore IgnoreSet) OverusedList {
	list := OverusedList{}
	if totalWords <= 0 {
		return list
	}

	for _, occ := range occurrences {
		if occ.Count < s.MinOccurrences {
			continue
		}
		if !s.Filter.Eligible(occ.Word, ignore) {
			continue
		}
		expected, ok := s.Estimator.Expected(occ.Word)
		if !ok || expected <= 0 {
			continue
		}

		multiplier := Multiplier(occ.Count, totalWords, expected)
		if multiplier <= s.MinMultiplier {
			continue
		}
		list = append(list, ScoredWord{
			Word:              occ.Word,
			NumFound:          occ.Count,
			ExpectedFrequency: expected,
			Multiplier:        multiplier,
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Multiplier > list[j].Multiplier
	})

	if s.MaxResults > 0 && len(list) > s.MaxResults {
		list = list[:s.MaxResults]
	}
	return list
}

// Multiplier is floor((numFound / totalWords) / expected).
func Multiplier(numFound, totalWords int, expected float64) int {
	if totalWords <= 0 || expected <= 0 {
		return 0
	}
	observed := float64(numFound) / float64(totalWords)
	return int(math.Floor(observed / expected))
}

// Analyzer runs tokenization and scoring over raw text.
type Analyzer struct {
	Scorer Scorer
}

// Options configures NewAnalyzer. Zero values select the defaults.
type Options struct {
	MinOccurrences int
	MinMultiplier  int
	MaxResults     int
	MinWordLength  int
	ZipfConstant   float64
}

// NewAnalyzer wires a Scorer over ranks. lexicon is a recognized-word list
// separate from the corpus; pass nil when the corpus is the only word list,
// since the rank lookup already drops words it does not know.
func NewAnalyzer(ranks RankLookup, lexicon Lexicon, opts Options) *Analyzer {
	if opts.MinOccurrences <= 0 {
		opts.MinOccurrences = DefaultMinOccurrences
	}
	if opts.MinMultiplier <= 0 {
		opts.MinMultiplier = DefaultMinMultiplier
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.MinWordLength <= 0 {
		opts.MinWordLength = DefaultMinWordLength
	}

	return &Analyzer{Scorer: Scorer{
		Filter:         Filter{MinLength: opts.MinWordLength, Lexicon: lexicon},
		Estimator:      NewEstimator(ranks, opts.ZipfConstant),
		MinOccurrences: opts.MinOccurrences,
		MinMultiplier:  opts.MinMultiplier,
		MaxResults:     opts.MaxResults,
	}}
}

// Analyze returns the OverusedList for text. Synonyms are not filled in.
func (a *Analyzer) Analyze(text string, totalWords int, ignore IgnoreSet) OverusedList {
	if text == "" || totalWords <= 0 {
		return OverusedList{}
	}
	return a.Scorer.Score(Count(text), totalWords, ignore)
}
