package synonyms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/synonymy/internal/logger"
	"github.com/bastiangx/synonymy/pkg/analysis"
)

type fakeLookup struct {
	mu     sync.Mutex
	calls  [][]LookupItem
	result map[string][]string
	err    error
}

func (f *fakeLookup) Synonyms(_ context.Context, items []LookupItem) (map[string][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, items)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeLookup) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestCoordinator(l Lookup) *Coordinator {
	c := NewCoordinator(l)
	c.SetLogger(logger.Discard())
	return c
}

func sampleList() analysis.OverusedList {
	return analysis.OverusedList{
		{Word: "important", NumFound: 9, Multiplier: 30, ExpectedFrequency: 0.001428},
		{Word: "really", NumFound: 6, Multiplier: 12, ExpectedFrequency: 0.0007},
		{Word: "basically", NumFound: 4, Multiplier: 8, ExpectedFrequency: 0.0001},
	}
}

func TestMergeIsAdditive(t *testing.T) {
	old := Cache{"important": {"vital"}}
	fresh := Cache{
		"Important": {"crucial"},
		"really":    {"truly", "Truly", "", "really", "genuinely"},
		"basically": {},
		"":          {"ignored"},
	}

	merged := Merge(old, fresh)

	assert.Equal(t, []string{"vital"}, merged["important"])
	assert.Equal(t, []string{"truly", "genuinely"}, merged["really"])
	assert.Equal(t, []string{}, merged["basically"])
	assert.Equal(t, 3, merged.Len())

	// inputs untouched
	assert.Equal(t, 1, old.Len())
	assert.Len(t, fresh["really"], 5)
}

func TestMergeMonotonic(t *testing.T) {
	c := Cache{}
	rounds := []Cache{
		{"alpha": {"first"}},
		{"bravo": {"second"}, "alpha": {"overwritten"}},
		{"charlie": nil},
	}
	for _, fresh := range rounds {
		next := Merge(c, fresh)
		for k, v := range c {
			require.Contains(t, next, k)
			assert.Equal(t, v, next[k])
		}
		c = next
	}
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"first"}, c["alpha"])
}

func TestPartition(t *testing.T) {
	list := sampleList()
	cache := Cache{"really": {"truly"}, "unrelated": {"x"}}

	enriched, uncached := Partition(list, cache)

	require.Len(t, enriched, 3)
	assert.Equal(t, list.Words(), enriched.Words())
	assert.Equal(t, []string{"truly"}, enriched[1].Synonyms)
	assert.Nil(t, enriched[0].Synonyms)

	require.Len(t, uncached, 2)
	assert.Equal(t, "important", uncached[0].Word)
	assert.Equal(t, "basically", uncached[1].Word)

	// list itself is not modified
	assert.Nil(t, list[1].Synonyms)
}

func TestEnrichAllCachedMakesNoLookup(t *testing.T) {
	fake := &fakeLookup{}
	cache := Cache{"important": {"vital"}, "really": {"truly"}, "basically": {}}

	list, next, err := newTestCoordinator(fake).Enrich(context.Background(), sampleList(), cache)
	require.NoError(t, err)
	assert.Equal(t, 0, fake.callCount())
	assert.Equal(t, cache, next)
	assert.Equal(t, []string{"vital"}, list[0].Synonyms)
	assert.Equal(t, []string{}, list[2].Synonyms)
}

func TestEnrichEmptyList(t *testing.T) {
	fake := &fakeLookup{}
	list, _, err := newTestCoordinator(fake).Enrich(context.Background(), analysis.OverusedList{}, Cache{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, fake.callCount())
}

func TestEnrichSingleBatchedLookup(t *testing.T) {
	fake := &fakeLookup{result: map[string][]string{
		"important": {"vital", "crucial"},
		"basically": {"essentially"},
		"surprise":  {"not requested"},
	}}
	cache := Cache{"really": {"truly"}}

	list, next, err := newTestCoordinator(fake).Enrich(context.Background(), sampleList(), cache)
	require.NoError(t, err)

	require.Equal(t, 1, fake.callCount())
	sent := fake.calls[0]
	require.Len(t, sent, 2)
	assert.Equal(t, LookupItem{Word: "important", Multiplier: 30, NumFound: 9, ExpectedFrequency: 0.001428}, sent[0])
	assert.Equal(t, "basically", sent[1].Word)

	assert.Equal(t, []string{"vital", "crucial"}, list[0].Synonyms)
	assert.Equal(t, []string{"truly"}, list[1].Synonyms)
	assert.Equal(t, []string{"essentially"}, list[2].Synonyms)

	assert.Equal(t, 3, next.Len())
	assert.NotContains(t, next, "surprise")
	assert.Equal(t, 1, cache.Len())
}

func TestEnrichPartialResponse(t *testing.T) {
	fake := &fakeLookup{result: map[string][]string{"important": {"vital"}}}

	list, next, err := newTestCoordinator(fake).Enrich(context.Background(), sampleList(), Cache{})
	require.NoError(t, err)

	assert.Equal(t, []string{"vital"}, list[0].Synonyms)
	assert.Nil(t, list[1].Synonyms)
	assert.Nil(t, list[2].Synonyms)

	_, cached := next.Lookup("really")
	assert.False(t, cached)
	assert.Equal(t, 1, next.Len())
}

func TestEnrichLookupFailure(t *testing.T) {
	boom := errors.New("connection refused")
	fake := &fakeLookup{err: boom}
	cache := Cache{"really": {"truly"}}

	list, next, err := newTestCoordinator(fake).Enrich(context.Background(), sampleList(), cache)
	require.Error(t, err)

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"important", "basically"}, lookupErr.Words)

	require.Len(t, list, 3)
	assert.Nil(t, list[0].Synonyms)
	assert.Equal(t, []string{"truly"}, list[1].Synonyms)
	assert.Equal(t, cache, next)
}

func TestEnrichNilLookup(t *testing.T) {
	list, next, err := newTestCoordinator(nil).Enrich(context.Background(), sampleList(), Cache{"really": {"truly"}})
	require.NoError(t, err)
	assert.Equal(t, 1, next.Len())
	assert.Equal(t, []string{"truly"}, list[1].Synonyms)
}

func TestClientSynonyms(t *testing.T) {
	var gotBody struct {
		List []LookupItem `json:"list"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/synonyms/", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"important":["vital","crucial"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", ClientOptions{APIKey: "secret", RequestsPerSecond: 100, Burst: 1})
	got, err := c.Synonyms(context.Background(), []LookupItem{{Word: "important", Multiplier: 30, NumFound: 9}})
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{"important": {"vital", "crucial"}}, got)
	require.Len(t, gotBody.List, 1)
	assert.Equal(t, "important", gotBody.List[0].Word)
	assert.Equal(t, 30, gotBody.List[0].Multiplier)
}

func TestClientErrors(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			"bad status",
			func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
			"unexpected status 503",
		},
		{
			"bad json",
			func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`["not", "a", "map"]`))
			},
			"decode response",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL, ClientOptions{}).Synonyms(context.Background(), []LookupItem{{Word: "important"}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestClientHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, ClientOptions{}).Synonyms(ctx, []LookupItem{{Word: "important"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientEmptyBatch(t *testing.T) {
	got, err := NewClient("http://127.0.0.1:1", ClientOptions{}).Synonyms(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
