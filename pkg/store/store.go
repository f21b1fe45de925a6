// Package store persists the user's last text between runs.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"

	"github.com/bastiangx/synonymy/internal/logger"
)

var (
	keyText    = []byte("text/last")
	keySavedAt = []byte("text/saved_at")
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Config controls how the store is opened.
type Config struct {
	// Dir holds the badger files. Ignored when InMemory is set.
	Dir string
	// InMemory keeps everything in memory, for tests.
	InMemory bool
	// SyncWrites flushes every Save to disk before returning.
	SyncWrites bool
	// Logger receives badger's own log output; nil silences it.
	Logger *log.Logger
}

// TextStore keeps the most recent text in a badger database.
type TextStore struct {
	mu     sync.RWMutex
	db     *badger.DB
	closed bool
}

// badgerLogger bridges badger's logger interface to charm log.
type badgerLogger struct {
	l *log.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Errorf(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warnf(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debugf(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debugf(format, args...)
}

// Open opens (or creates) the store described by cfg.
func Open(cfg Config) (*TextStore, error) {
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, errors.New("store directory is required")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{l: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &TextStore{db: db}, nil
}

// OpenDir opens a persistent store in dir with badger logging routed to a
// "store" component logger.
func OpenDir(dir string) (*TextStore, error) {
	return Open(Config{Dir: dir, SyncWrites: true, Logger: logger.New("store")})
}

// OpenInMemory opens a throwaway store.
func OpenInMemory() (*TextStore, error) {
	return Open(Config{InMemory: true})
}

// Save replaces the stored text.
func (s *TextStore) Save(text string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	stamp := make([]byte, 8)
	binary.BigEndian.PutUint64(stamp, uint64(time.Now().UnixNano()))

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keyText, []byte(text)); err != nil {
			return err
		}
		return txn.Set(keySavedAt, stamp)
	})
	if err != nil {
		return fmt.Errorf("save text: %w", err)
	}
	return nil
}

// Load returns the stored text. ok is false when nothing was ever saved.
func (s *TextStore) Load() (text string, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}

	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyText)
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		text, ok = string(val), true
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load text: %w", err)
	}
	return text, ok, nil
}

// SavedAt returns when the text was last saved, or the zero time.
func (s *TextStore) SavedAt() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return time.Time{}, ErrClosed
	}

	var at time.Time
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keySavedAt)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("bad timestamp length %d", len(val))
			}
			at = time.Unix(0, int64(binary.BigEndian.Uint64(val)))
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("load timestamp: %w", err)
	}
	return at, nil
}

// Close closes the database. Further calls return ErrClosed.
func (s *TextStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
