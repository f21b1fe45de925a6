package session

import (
	"context"
	"errors"

	"github.com/bastiangx/synonymy/pkg/analysis"
	"github.com/bastiangx/synonymy/pkg/synonyms"
)

// ErrSuperseded is returned to a caller whose run was overtaken by a newer
// one before it could commit. Nothing from that run was applied.
var ErrSuperseded = errors.New("analysis run superseded by a newer request")

// ErrClosed is returned by checks started after Close.
var ErrClosed = errors.New("session is closed")

// State is the recompute trigger's state.
type State int

const (
	// Idle: no results and nothing scheduled.
	Idle State = iota
	// Pending: text changed, waiting for the debounce window to elapse.
	Pending
	// Fetching: a run is in flight.
	Fetching
	// Settled: the latest run committed its results.
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Fetching:
		return "fetching"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// AnalysisRequest is the complete input of one run. It is built when a run
// starts and never shared with another run.
type AnalysisRequest struct {
	RunID      uint64
	Text       string
	TotalWords int
	Cache      synonyms.Cache
	Ignore     analysis.IgnoreSet
}

// Snapshot is a consistent, caller-owned copy of the session state.
type Snapshot struct {
	RunID      uint64
	State      State
	Overused   analysis.OverusedList
	Ignored    []string
	TotalWords int
	CacheSize  int
	// Err is the non-fatal error of the last committed run, usually a
	// *synonyms.LookupError.
	Err error
}

// Enricher attaches synonyms to an overused list. *synonyms.Coordinator
// implements it.
type Enricher interface {
	Enrich(ctx context.Context, list analysis.OverusedList, cache synonyms.Cache) (analysis.OverusedList, synonyms.Cache, error)
}

// TextStore receives the text of every run as it starts.
type TextStore interface {
	Save(text string) error
}
