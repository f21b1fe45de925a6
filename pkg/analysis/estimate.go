package analysis

// DefaultZipfConstant approximates the share of the most frequent English
// word; the expected rate of the word at rank R is DefaultZipfConstant / R.
const DefaultZipfConstant = 0.0714

// RankLookup returns a word's 1-based usage rank.
type RankLookup interface {
	Rank(word string) (int, bool)
}

// Estimator maps a word to its expected occurrence rate in general usage.
type Estimator struct {
	Ranks RankLookup
	K     float64
}

// NewEstimator creates an estimator; k <= 0 selects DefaultZipfConstant.
func NewEstimator(ranks RankLookup, k float64) Estimator {
	if k <= 0 {
		k = DefaultZipfConstant
	}
	return Estimator{Ranks: ranks, K: k}
}

// Expected returns k / rank, or false when the word is not in the corpus.
func (e Estimator) Expected(word string) (float64, bool) {
	if e.Ranks == nil {
		return 0, false
	}
	rank, ok := e.Ranks.Rank(word)
	if !ok || rank < 1 {
		return 0, false
	}
	return e.K / float64(rank), true
}
