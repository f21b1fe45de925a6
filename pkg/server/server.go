package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/synonymy/internal/logger"
	"github.com/bastiangx/synonymy/pkg/analysis"
	"github.com/bastiangx/synonymy/pkg/session"
)

// Session is the part of *session.Session the server drives.
type Session interface {
	TextChanged(text string, totalWords int)
	Check(ctx context.Context) (analysis.OverusedList, error)
	Ignore(word string)
	Unignore(word string)
	SetIgnored(ignore analysis.IgnoreSet)
	Reset() analysis.OverusedList
	Snapshot() session.Snapshot
	OnCommit(fn func(session.Snapshot))
}

// Options configures the ready message.
type Options struct {
	// FirstVisit is true when no text was ever saved.
	FirstVisit bool
	// RestoredText is the text saved by the previous run, if any.
	RestoredText string
}

// Server handles msgpack IPC for one session.
type Server struct {
	session Session
	opts    Options
	reader  io.Reader
	logger  *log.Logger

	wmu sync.Mutex
	enc *msgpack.Encoder

	wg sync.WaitGroup
}

// NewServer creates a server on stdin/stdout.
func NewServer(sess Session, opts Options) *Server {
	return New(sess, os.Stdin, os.Stdout, opts)
}

// New creates a server reading requests from r and writing to w.
func New(sess Session, r io.Reader, w io.Writer, opts Options) *Server {
	s := &Server{
		session: sess,
		opts:    opts,
		reader:  r,
		logger:  logger.New("server"),
		enc:     msgpack.NewEncoder(w),
	}
	sess.OnCommit(s.push)
	return s
}

// SetLogger replaces the server's logger.
func (s *Server) SetLogger(l *log.Logger) {
	s.logger = l
}

// Start writes the ready message and serves requests until the input ends
// or ctx is done. Checks still in flight are answered before it returns.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting server.")
	defer s.wg.Wait()

	s.send(ReadyMessage{
		Status:     StatusReady,
		FirstVisit: s.opts.FirstVisit,
		TextLength: analysis.CountWords(s.opts.RestoredText),
		Text:       s.opts.RestoredText,
	})

	dec := msgpack.NewDecoder(bufio.NewReader(s.reader))
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		var req Request
		err := dec.Decode(&req)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			s.logger.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return err
			}
			continue
		}
		s.handleRequest(ctx, req)
	}
}

func (s *Server) handleRequest(ctx context.Context, req Request) {
	requestsTotal.WithLabelValues(actionLabel(req.Action)).Inc()

	switch req.Action {
	case ActionCheck:
		if req.Text != "" || req.NumWords != nil {
			s.session.TextChanged(req.Text, wordCount(req))
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleCheck(ctx, req)
		}()
	case ActionText:
		s.session.TextChanged(req.Text, wordCount(req))
		s.respond(req.ID, StatusOK, s.session.Snapshot(), 0)
	case ActionIgnore:
		if req.Words != nil {
			s.session.SetIgnored(analysis.NewIgnoreSet(req.Words...))
		} else if req.Word != "" {
			s.session.Ignore(req.Word)
		} else {
			s.sendError(req.ID, "missing 'word' or 'words'", 400)
			return
		}
		s.respond(req.ID, StatusOK, s.session.Snapshot(), 0)
	case ActionUnignore:
		if req.Word == "" {
			s.sendError(req.ID, "missing 'word'", 400)
			return
		}
		s.session.Unignore(req.Word)
		s.respond(req.ID, StatusOK, s.session.Snapshot(), 0)
	case ActionReset:
		s.session.Reset()
		s.respond(req.ID, StatusOK, s.session.Snapshot(), 0)
	case ActionState:
		s.respond(req.ID, StatusOK, s.session.Snapshot(), 0)
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %q", req.Action), 400)
	}
}

func (s *Server) handleCheck(ctx context.Context, req Request) {
	start := time.Now()
	_, err := s.session.Check(ctx)
	elapsed := time.Since(start)

	if errors.Is(err, session.ErrSuperseded) {
		snap := s.session.Snapshot()
		s.respond(req.ID, StatusSuperseded, snap, elapsed)
		return
	}
	if errors.Is(err, session.ErrClosed) {
		s.sendError(req.ID, err.Error(), 503)
		return
	}
	// lookup errors are carried in the snapshot
	s.respond(req.ID, StatusOK, s.session.Snapshot(), elapsed)
}

// push sends results the session committed on its own.
func (s *Server) push(snap session.Snapshot) {
	s.respond("", StatusResult, snap, 0)
}

func (s *Server) respond(id, status string, snap session.Snapshot, elapsed time.Duration) {
	resp := Response{
		ID:        id,
		Status:    status,
		Overused:  snap.Overused,
		Ignored:   snap.Ignored,
		State:     snap.State.String(),
		Run:       snap.RunID,
		TimeTaken: elapsed.Milliseconds(),
	}
	if resp.Overused == nil {
		resp.Overused = []analysis.ScoredWord{}
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	s.send(resp)
}

// send encodes v onto the output stream. Safe for concurrent use.
func (s *Server) send(v any) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := s.enc.Encode(v); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{
		ID:     id,
		Status: StatusError,
		Error:  message,
		Code:   code,
	})
}

func wordCount(req Request) int {
	if req.NumWords != nil && *req.NumWords >= 0 {
		return *req.NumWords
	}
	return analysis.CountWords(req.Text)
}

func actionLabel(action string) string {
	switch action {
	case ActionCheck, ActionText, ActionIgnore, ActionUnignore, ActionReset, ActionState:
		return action
	default:
		return "unknown"
	}
}
