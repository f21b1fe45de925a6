// Package session decides when the overused-word analysis is recomputed and
// which run's results are kept.
//
// Every run gets a monotonically increasing id. Only the run holding the
// latest id may commit; starting a run cancels the previous one and any
// result it produces afterwards is discarded.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/synonymy/internal/logger"
	"github.com/bastiangx/synonymy/pkg/analysis"
	"github.com/bastiangx/synonymy/pkg/synonyms"
)

// Trigger defaults.
const (
	DefaultDebounce = time.Second
	DefaultMinWords = 200
)

// Options configures New.
type Options struct {
	// Debounce is the quiet period after an edit before a refine.
	Debounce time.Duration
	// MinWords is the smallest text a debounced edit refines.
	MinWords int
	// Store, if set, receives the text of every run.
	Store  TextStore
	Logger *log.Logger
}

// Session owns one user's OverusedList, SynonymCache and IgnoreSet and is
// their only writer.
type Session struct {
	analyzer *analysis.Analyzer
	enricher Enricher
	store    TextStore
	logger   *log.Logger
	debounce *Debouncer
	minWords int

	baseCtx  context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup

	mu         sync.Mutex
	state      State
	runID      uint64
	cancelRun  context.CancelCauseFunc
	text       string
	totalWords int
	overused   analysis.OverusedList
	cache      synonyms.Cache
	ignore     analysis.IgnoreSet
	lastErr    error
	onCommit   func(Snapshot)
	closed     bool
}

// New creates an idle session.
func New(analyzer *analysis.Analyzer, enricher Enricher, opts Options) *Session {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinWords <= 0 {
		opts.MinWords = DefaultMinWords
	}
	if opts.Logger == nil {
		opts.Logger = logger.New("session")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		analyzer: analyzer,
		enricher: enricher,
		store:    opts.Store,
		logger:   opts.Logger,
		debounce: NewDebouncer(opts.Debounce),
		minWords: opts.MinWords,
		baseCtx:  ctx,
		shutdown: cancel,
		overused: analysis.OverusedList{},
		cache:    synonyms.Cache{},
		ignore:   analysis.NewIgnoreSet(),
	}
}

// OnCommit registers fn to be called with the new state after every run the
// session started on its own (debounced edit, ignore change) commits, and
// after an automatic reset. fn runs outside the session lock.
func (s *Session) OnCommit(fn func(Snapshot)) {
	s.mu.Lock()
	s.onCommit = fn
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		RunID:      s.runID,
		State:      s.state,
		Overused:   s.overused.Clone(),
		Ignored:    s.ignore.Words(),
		TotalWords: s.totalWords,
		CacheSize:  s.cache.Len(),
		Err:        s.lastErr,
	}
}

// RunCheck runs the first full analysis of text. It blocks until the run
// commits and returns the committed list. A *synonyms.LookupError comes back
// together with a usable list; ErrSuperseded means a newer run took over.
func (s *Session) RunCheck(ctx context.Context, text string, totalWords int) (analysis.OverusedList, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	req, runCtx := s.beginLocked(ctx, text, totalWords, nil, s.ignore)
	s.mu.Unlock()

	snap, err := s.execute(runCtx, req)
	if errors.Is(err, ErrSuperseded) {
		return nil, err
	}
	return snap.Overused, err
}

// RefineCheck recomputes the analysis reusing cached synonyms, including any
// already attached to current. ignore replaces the session's IgnoreSet.
func (s *Session) RefineCheck(ctx context.Context, text string, totalWords int, current analysis.OverusedList, ignore analysis.IgnoreSet) (analysis.OverusedList, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if ignore != nil {
		s.ignore = ignore.Clone()
	}
	req, runCtx := s.beginLocked(ctx, text, totalWords, current, s.ignore)
	s.mu.Unlock()

	snap, err := s.execute(runCtx, req)
	if errors.Is(err, ErrSuperseded) {
		return nil, err
	}
	return snap.Overused, err
}

// Check is an explicit user request: a full check when there are no results
// yet, a refine otherwise. It uses the text from the last TextChanged.
func (s *Session) Check(ctx context.Context) (analysis.OverusedList, error) {
	s.mu.Lock()
	text, total := s.text, s.totalWords
	current := s.overused
	ignore := s.ignore.Clone()
	s.mu.Unlock()

	if len(current) == 0 {
		return s.RunCheck(ctx, text, total)
	}
	return s.RefineCheck(ctx, text, total, current, ignore)
}

// Reset discards the current results and cancels any run in flight. The
// synonym cache and the IgnoreSet are kept.
func (s *Session) Reset() analysis.OverusedList {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return analysis.OverusedList{}
}

func (s *Session) resetLocked() {
	s.debounce.Stop()
	if s.cancelRun != nil {
		s.cancelRun(ErrSuperseded)
		s.cancelRun = nil
	}
	s.runID++
	s.overused = analysis.OverusedList{}
	s.lastErr = nil
	s.state = Idle
}

// TextChanged records an edit. An edit that empties the text resets the
// results; any other edit re-arms the debounce window.
func (s *Session) TextChanged(text string, totalWords int) {
	s.mu.Lock()
	s.text = text
	s.totalWords = totalWords

	if totalWords == 0 && len(s.overused) > 0 {
		s.logger.Debug("text cleared, resetting results")
		s.resetLocked()
		snap, cb := s.snapshotLocked(), s.onCommit
		s.mu.Unlock()
		if cb != nil {
			cb(snap)
		}
		return
	}

	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.state != Fetching {
		s.state = Pending
	}
	s.mu.Unlock()
	s.debounce.Trigger(s.debounceElapsed)
}

func (s *Session) debounceElapsed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.totalWords >= s.minWords && len(s.overused) > 0 {
		s.startBackgroundLocked("edit")
		return
	}
	if s.state == Pending {
		s.state = s.restingLocked()
	}
}

func (s *Session) restingLocked() State {
	if len(s.overused) > 0 {
		return Settled
	}
	return Idle
}

// SetIgnored replaces the IgnoreSet.
func (s *Session) SetIgnored(ignore analysis.IgnoreSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignore = ignore.Clone()
	s.ignoreChangedLocked()
}

// Ignore adds word to the IgnoreSet.
func (s *Session) Ignore(word string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignore = s.ignore.Clone()
	s.ignore.Add(word)
	s.ignoreChangedLocked()
}

// Unignore removes word from the IgnoreSet.
func (s *Session) Unignore(word string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignore = s.ignore.Clone()
	s.ignore.Remove(word)
	s.ignoreChangedLocked()
}

// ignoreChangedLocked refines whenever results exist, whether or not the
// changed word is in them.
func (s *Session) ignoreChangedLocked() {
	if len(s.overused) == 0 {
		return
	}
	s.debounce.Stop()
	s.startBackgroundLocked("ignore")
}

func (s *Session) startBackgroundLocked(reason string) {
	if s.closed {
		return
	}
	req, runCtx := s.beginLocked(s.baseCtx, s.text, s.totalWords, s.overused, s.ignore)
	s.logger.Debug("refining", "run", req.RunID, "reason", reason, "words", req.TotalWords)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		snap, err := s.execute(runCtx, req)
		if errors.Is(err, ErrSuperseded) {
			return
		}

		s.mu.Lock()
		cb := s.onCommit
		s.mu.Unlock()
		if cb != nil {
			cb(snap)
		}
	}()
}

// beginLocked allocates the next run id, supersedes the current run and
// builds the request. Synonyms attached to current seed the cache snapshot.
func (s *Session) beginLocked(parent context.Context, text string, totalWords int, current analysis.OverusedList, ignore analysis.IgnoreSet) (AnalysisRequest, context.Context) {
	s.debounce.Stop()
	if s.cancelRun != nil {
		s.cancelRun(ErrSuperseded)
	}

	s.runID++
	s.text = text
	s.totalWords = totalWords
	s.state = Fetching

	ctx, cancel := context.WithCancelCause(parent)
	s.cancelRun = cancel

	if s.store != nil {
		if err := s.store.Save(text); err != nil {
			s.logger.Warn("could not save text", "err", err)
		}
	}

	cache := s.cache.Clone()
	seed := synonyms.Cache{}
	for _, w := range current {
		if w.Synonyms != nil {
			seed[w.Word] = w.Synonyms
		}
	}
	if len(seed) > 0 {
		cache = synonyms.Merge(cache, seed)
	}

	return AnalysisRequest{
		RunID:      s.runID,
		Text:       text,
		TotalWords: totalWords,
		Cache:      cache,
		Ignore:     ignore.Clone(),
	}, ctx
}

// execute runs the pipeline for req and commits the result if req is still
// the latest run.
func (s *Session) execute(ctx context.Context, req AnalysisRequest) (Snapshot, error) {
	list := s.analyzer.Analyze(req.Text, req.TotalWords, req.Ignore)

	var (
		cache = req.Cache
		err   error
	)
	if len(list) > 0 && s.enricher != nil {
		list, cache, err = s.enricher.Enrich(ctx, list, req.Cache)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.RunID != s.runID {
		s.logger.Debug("discarding stale run", "run", req.RunID, "latest", s.runID)
		return Snapshot{}, ErrSuperseded
	}

	if s.cancelRun != nil {
		s.cancelRun(nil)
		s.cancelRun = nil
	}
	s.overused = list
	s.cache = cache
	s.lastErr = err
	s.state = Settled
	if err != nil {
		s.logger.Warn("run committed without some synonyms", "run", req.RunID, "err", err)
	}
	s.logger.Debug("run committed", "run", req.RunID, "overused", len(list), "cached", cache.Len())

	return s.snapshotLocked(), err
}

// Close stops new runs from starting, lets background runs already in
// flight commit and notify OnCommit, then cancels whatever blocking run is
// left. A background run blocked on a lookup holds Close until the lookup
// returns or times out. Calling Close again is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.debounce.Stop()
	s.wg.Wait()

	s.mu.Lock()
	if s.cancelRun != nil {
		s.cancelRun(ErrSuperseded)
		s.cancelRun = nil
	}
	s.runID++
	s.mu.Unlock()

	s.shutdown()
}
