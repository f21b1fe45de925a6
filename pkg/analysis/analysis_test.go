package analysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rankMap is a RankLookup and Lexicon backed by a map.
type rankMap map[string]int

func (m rankMap) Rank(word string) (int, bool) {
	r, ok := m[word]
	return r, ok
}

func (m rankMap) Has(word string) bool {
	_, ok := m[word]
	return ok
}

var nato = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot",
	"golf", "hotel", "india", "juliet", "kilo", "lima",
}

func repeat(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func TestCount(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want []WordOccurrence
	}{
		{"empty", "", []WordOccurrence{}},
		{"only stop words", "The and of THE", []WordOccurrence{}},
		{
			"case and punctuation",
			"Essay, essay! ESSAY? (essay)",
			[]WordOccurrence{{"essay", 4}},
		},
		{
			"first appearance order",
			"zebra apple zebra mango apple zebra",
			[]WordOccurrence{{"zebra", 3}, {"apple", 2}, {"mango", 1}},
		},
		{
			"digits dropped",
			"mp3 player 2024 player",
			[]WordOccurrence{{"player", 2}},
		},
		{
			"possessive and quotes",
			"the writer's 'writer' writer’s",
			[]WordOccurrence{{"writer", 3}},
		},
		{
			"stop word possessives",
			"here's who's writer's here's",
			[]WordOccurrence{{"writer", 1}},
		},
		{
			"hyphens split",
			"well-known known",
			[]WordOccurrence{{"well", 1}, {"known", 2}},
		},
		{"contractions are stop words", "don't it's can't", []WordOccurrence{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Count(tc.text))
		})
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n\t"))
	assert.Equal(t, 4, CountWords("one two\nthree   four"))
}

func TestFilterEligible(t *testing.T) {
	f := Filter{MinLength: 3, Lexicon: rankMap{"important": 50, "really": 200, "aaa": 900}}
	ignore := NewIgnoreSet("Really")

	testCases := []struct {
		word string
		want bool
	}{
		{"important", true},
		{"really", false}, // ignored, case-insensitively
		{"aaa", false},    // repetitive
		{"ok", false},     // too short
		{"unknownword", false},
		{"imp0rtant", false},
		{"", false},
	}
	for _, tc := range testCases {
		t.Run(tc.word, func(t *testing.T) {
			assert.Equal(t, tc.want, f.Eligible(tc.word, ignore))
		})
	}

	// nil lexicon and nil ignore set
	assert.True(t, Filter{MinLength: 3}.Eligible("unknownword", nil))
}

func TestEstimatorExpected(t *testing.T) {
	e := NewEstimator(rankMap{"the": 1, "important": 50}, 0)

	exp, ok := e.Expected("important")
	require.True(t, ok)
	assert.InDelta(t, 0.001428, exp, 1e-9)

	exp, ok = e.Expected("the")
	require.True(t, ok)
	assert.InDelta(t, DefaultZipfConstant, exp, 1e-12)

	_, ok = e.Expected("missing")
	assert.False(t, ok)

	_, ok = Estimator{}.Expected("the")
	assert.False(t, ok)
}

func newTestAnalyzer(ranks rankMap) *Analyzer {
	return NewAnalyzer(ranks, ranks, Options{})
}

func TestAnalyzeImportantExample(t *testing.T) {
	a := newTestAnalyzer(rankMap{"important": 50})
	text := repeat("important", 9) + " " + repeat("the", 201)
	require.Equal(t, 210, CountWords(text))

	list := a.Analyze(text, 210, nil)
	require.Len(t, list, 1)
	assert.Equal(t, "important", list[0].Word)
	assert.Equal(t, 9, list[0].NumFound)
	assert.Equal(t, 30, list[0].Multiplier)
	assert.InDelta(t, 0.001428, list[0].ExpectedFrequency, 1e-9)
	assert.Nil(t, list[0].Synonyms)
}

func TestScoreOccurrenceFloor(t *testing.T) {
	a := newTestAnalyzer(rankMap{"important": 50000})

	// a huge multiplier, but only two occurrences
	list := a.Scorer.Score([]WordOccurrence{{"important", 2}}, 10, nil)
	assert.Empty(t, list)

	list = a.Scorer.Score([]WordOccurrence{{"important", 3}}, 10, nil)
	assert.Len(t, list, 1)
}

func TestScoreFewerThanThreeEverywhere(t *testing.T) {
	ranks := rankMap{}
	var parts []string
	for i, w := range nato {
		ranks[w] = 10000 + i
		parts = append(parts, w, w)
	}
	text := strings.Join(parts, " ")

	list := newTestAnalyzer(ranks).Analyze(text, CountWords(text), nil)
	assert.Empty(t, list)
}

func TestScoreZeroTotal(t *testing.T) {
	a := newTestAnalyzer(rankMap{"important": 50})
	text := repeat("important", 9)

	assert.NotPanics(t, func() {
		assert.Empty(t, a.Analyze(text, 0, nil))
		assert.Empty(t, a.Scorer.Score(Count(text), 0, nil))
		assert.Empty(t, a.Scorer.Score(Count(text), -4, nil))
	})
	assert.Empty(t, a.Analyze("", 210, nil))
}

func TestScoreMultiplierThresholdIsExclusive(t *testing.T) {
	// 3/100 / (0.0714/R): R = 12 gives 5.04, R = 15 gives 6.3
	a := newTestAnalyzer(rankMap{"stable": 12, "steady": 15})
	list := a.Scorer.Score([]WordOccurrence{{"stable", 3}, {"steady", 3}}, 100, nil)
	require.Len(t, list, 1)
	assert.Equal(t, "steady", list[0].Word)
	assert.Equal(t, 5, Multiplier(3, 100, 0.0714/12))
}

func TestScoreSortedAndTruncated(t *testing.T) {
	ranks := rankMap{}
	var occ []WordOccurrence
	for i, w := range nato {
		ranks[w] = 1000
		occ = append(occ, WordOccurrence{w, 3 + i})
	}

	list := newTestAnalyzer(ranks).Scorer.Score(occ, 1000, nil)
	require.Len(t, list, DefaultMaxResults)
	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, list[i-1].Multiplier, list[i].Multiplier)
	}
	assert.Equal(t, "lima", list[0].Word)
	assert.NotContains(t, list.Words(), "alpha")
	assert.NotContains(t, list.Words(), "bravo")
}

func TestAnalyzeIgnoreExcludes(t *testing.T) {
	ranks := rankMap{"important": 50, "essential": 60}
	a := newTestAnalyzer(ranks)
	text := repeat("important", 9) + " " + repeat("essential", 9) + " " + repeat("filler", 192)
	total := CountWords(text)

	before := a.Analyze(text, total, nil)
	assert.ElementsMatch(t, []string{"important", "essential"}, before.Words())

	after := a.Analyze(text, total, NewIgnoreSet("important"))
	assert.Equal(t, []string{"essential"}, after.Words())
}

func TestAnalyzeIdempotent(t *testing.T) {
	ranks := rankMap{}
	var b strings.Builder
	for i, w := range nato {
		ranks[w] = 500 + i*10
		fmt.Fprintf(&b, "%s ", repeat(w, 3+i%4))
	}
	text := b.String() + repeat("filler", 150)
	total := CountWords(text)
	ignore := NewIgnoreSet("delta")

	a := newTestAnalyzer(ranks)
	first := a.Analyze(text, total, ignore)
	second := a.Analyze(text, total, ignore)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestOverusedListClone(t *testing.T) {
	list := OverusedList{{Word: "important", Synonyms: []string{"vital"}}}
	clone := list.Clone()
	clone[0].Synonyms[0] = "changed"
	assert.Equal(t, "vital", list[0].Synonyms[0])
	assert.Nil(t, OverusedList(nil).Clone())
}

func TestIgnoreSet(t *testing.T) {
	s := NewIgnoreSet(" Very ", "", "really")
	assert.True(t, s.Contains("VERY"))
	assert.Len(t, s, 2)

	c := s.Clone()
	c.Remove("very")
	assert.True(t, s.Contains("very"))
	assert.False(t, c.Contains("very"))
	assert.ElementsMatch(t, []string{"really"}, c.Words())

	var none IgnoreSet
	assert.False(t, none.Contains("anything"))
}

// countingRanks records every rank lookup.
type countingRanks struct {
	rankMap
	lookups map[string]int
}

func (c *countingRanks) Rank(word string) (int, bool) {
	c.lookups[word]++
	return c.rankMap.Rank(word)
}

func TestAnalyzeLooksUpEachWordOnce(t *testing.T) {
	r := &countingRanks{
		rankMap: rankMap{"important": 50, "essential": 60},
		lookups: map[string]int{},
	}
	a := NewAnalyzer(r, nil, Options{})

	text := strings.Repeat("important essential unknown ", 9) + strings.Repeat("the ", 183)
	list := a.Analyze(text, CountWords(text), nil)

	assert.Equal(t, []string{"essential", "important"}, list.Words())
	assert.Equal(t, map[string]int{"important": 1, "essential": 1, "unknown": 1}, r.lookups)
}
