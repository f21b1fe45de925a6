package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/synonymy/internal/logger"
	"github.com/bastiangx/synonymy/pkg/analysis"
	"github.com/bastiangx/synonymy/pkg/session"
)

type ranks map[string]int

func (r ranks) Rank(word string) (int, bool) {
	n, ok := r[word]
	return n, ok
}

func (r ranks) Has(word string) bool {
	_, ok := r[word]
	return ok
}

func essay() string {
	rep := func(w string, n int) string { return strings.TrimSpace(strings.Repeat(w+" ", n)) }
	return rep("important", 9) + " " + rep("essential", 9) + " " + rep("the", 192)
}

func newSession(t *testing.T) *session.Session {
	t.Helper()
	r := ranks{"important": 50, "essential": 60}
	s := session.New(analysis.NewAnalyzer(r, r, analysis.Options{}), nil, session.Options{
		Debounce: 10 * time.Millisecond,
		Logger:   logger.Discard(),
	})
	t.Cleanup(s.Close)
	return s
}

func TestStartPrintsTableAndRefines(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("ignore important\nbogus\nunignore important\nquit\ncheck\n")

	h := NewInputHandlerWithIO(newSession(t), in, &out)
	require.NoError(t, h.Start(context.Background(), essay()))

	text := out.String()
	assert.Contains(t, text, "Found 2 overused words in 210 words")
	assert.Contains(t, text, "Found 1 overused words in 210 words")
	assert.Contains(t, text, "Unknown command: bogus")
	assert.Contains(t, text, "30x")
	assert.Equal(t, 2, strings.Count(text, "Found 2 overused"))

	assert.Equal(t, []string{"essential", "important"}, h.current.Words())
}

func TestUnignoreAfterEverythingIgnored(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("ignore important\nignore essential\nunignore important\n")

	h := NewInputHandlerWithIO(newSession(t), in, &out)
	require.NoError(t, h.Start(context.Background(), essay()))

	assert.Contains(t, out.String(), "No overused words in 210 words.")
	assert.Equal(t, []string{"essential"}, h.ignore.Words())
	assert.Equal(t, []string{"important"}, h.current.Words())
}

func TestResetThenCheckKeepsIgnored(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("ignore essential\nreset\ncheck\n")

	h := NewInputHandlerWithIO(newSession(t), in, &out)
	require.NoError(t, h.Start(context.Background(), essay()))

	assert.Equal(t, []string{"important"}, h.current.Words())
}

func TestStartEndsOnEOF(t *testing.T) {
	var out bytes.Buffer
	h := NewInputHandlerWithIO(newSession(t), strings.NewReader("reset\n"), &out)
	require.NoError(t, h.Start(context.Background(), essay()))

	assert.Contains(t, out.String(), "Results cleared.")
	assert.Empty(t, h.current)
}

func TestCheckNothingOverused(t *testing.T) {
	var out bytes.Buffer
	h := NewInputHandlerWithIO(newSession(t), strings.NewReader(""), &out)
	require.NoError(t, h.Check(context.Background(), "a short and harmless note"))
	assert.Contains(t, out.String(), "No overused words in 5 words.")
}

type failingChecker struct{}

func (failingChecker) RunCheck(context.Context, string, int) (analysis.OverusedList, error) {
	return nil, errors.New("boom")
}

func (failingChecker) RefineCheck(context.Context, string, int, analysis.OverusedList, analysis.IgnoreSet) (analysis.OverusedList, error) {
	return nil, errors.New("boom")
}

func (failingChecker) Reset() analysis.OverusedList { return analysis.OverusedList{} }

func TestCheckError(t *testing.T) {
	var out bytes.Buffer
	h := NewInputHandlerWithIO(failingChecker{}, strings.NewReader(""), &out)
	assert.EqualError(t, h.Check(context.Background(), essay()), "boom")
}

func TestReadText(t *testing.T) {
	text, err := ReadText(strings.NewReader("line one\nline two\n"))
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", text)
}
