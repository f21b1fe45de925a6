package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidInput(t *testing.T) {
	testCases := []struct {
		input string
		valid bool
	}{
		{"important", true},
		{"don't", true},
		{"café", true},
		{"", false},
		{"1234", false},
		{"word2vec", false},
		{"user-name", false},
		{"email@example.com", false},
		{"aaa", false},
		{"zzzz", false},
		// two letters are not treated as repetitive
		{"aa", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValidInput(tc.input))
		})
	}
}

func TestNumberChecks(t *testing.T) {
	assert.True(t, ContainsNumbers("utf8"))
	assert.False(t, ContainsNumbers("utf"))
	assert.True(t, IsOnlyNumbers("2025"))
	assert.False(t, IsOnlyNumbers("3d"))
	assert.False(t, IsOnlyNumbers(""))
}

func TestDedupe(t *testing.T) {
	in := []string{"Crucial", "vital", " crucial ", "", "Important", "key", "VITAL"}
	got := Dedupe(in, "important")

	assert.Equal(t, []string{"Crucial", "vital", "key"}, got)
	assert.Len(t, in, 7, "input must not be modified")
	assert.Empty(t, Dedupe(nil))
}

func TestSeenFilter(t *testing.T) {
	f := NewSeenFilter("the")
	assert.False(t, f.ShouldInclude("The"))
	assert.True(t, f.ShouldInclude("word"))
	assert.False(t, f.ShouldInclude("WORD"))
}

func TestFormatWithCommas(t *testing.T) {
	testCases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		12345:    "12,345",
		1234567:  "1,234,567",
		-9876543: "-9,876,543",
	}
	for n, want := range testCases {
		assert.Equal(t, want, FormatWithCommas(n), "n=%d", n)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "crucial...", Truncate("crucial, vital, key", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint32{1, 2, 3}, CreateRankList(3))
	assert.Empty(t, CreateRankList(0))
}

func TestIsCorpusPath(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsCorpusPath(dir), "empty dir")
	assert.False(t, IsCorpusPath(filepath.Join(dir, "missing.txt")))

	list := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(list, []byte("the\nof\n"), 0644))
	assert.True(t, IsCorpusPath(list))

	other := filepath.Join(dir, "words.csv")
	require.NoError(t, os.WriteFile(other, []byte("the,of"), 0644))
	assert.False(t, IsCorpusPath(other))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dict_0001.bin"), []byte{0}, 0644))
	assert.True(t, IsCorpusPath(dir))
}

func TestTOMLRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	require.NoError(t, os.WriteFile(path, []byte("[analysis]\nmin_occurrences = 4\nzipf_constant = 0.08\n[store]\ndir = \"/tmp/x\"\n"), 0644))

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)

	section, ok := ExtractSection(data, "analysis")
	require.True(t, ok)
	n, ok := ExtractInt64(section, "min_occurrences")
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	f, ok := ExtractFloat(section, "zipf_constant")
	assert.True(t, ok)
	assert.InDelta(t, 0.08, f, 1e-9)

	_, ok = ExtractSection(data, "missing")
	assert.False(t, ok)
}
