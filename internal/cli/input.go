// Package cli runs a check from the command line for debugging and testing the analysis
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/synonymy/internal/logger"
	"github.com/bastiangx/synonymy/internal/utils"
	"github.com/bastiangx/synonymy/pkg/analysis"
)

// Checker is the consumer surface of a session.
type Checker interface {
	RunCheck(ctx context.Context, text string, totalWords int) (analysis.OverusedList, error)
	RefineCheck(ctx context.Context, text string, totalWords int, current analysis.OverusedList, ignore analysis.IgnoreSet) (analysis.OverusedList, error)
	Reset() analysis.OverusedList
}

// InputHandler checks one text and then accepts ignore/unignore commands
// that refine the result.
type InputHandler struct {
	checker Checker
	in      io.Reader
	out     *log.Logger

	text       string
	totalWords int
	current    analysis.OverusedList
	ignore     analysis.IgnoreSet
}

// NewInputHandler creates a handler reading commands from stdin.
func NewInputHandler(checker Checker) *InputHandler {
	return NewInputHandlerWithIO(checker, os.Stdin, os.Stderr)
}

// NewInputHandlerWithIO creates a handler on the given streams.
func NewInputHandlerWithIO(checker Checker, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		checker: checker,
		in:      in,
		out:     logger.NewWithConfig(out, "", log.InfoLevel, false, false, log.TextFormatter),
		ignore:  analysis.NewIgnoreSet(),
	}
}

// ReadText reads r to the end. Used for "-text -" and piped input.
func ReadText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return string(data), nil
}

// Check runs the first check of text and prints the result.
func (h *InputHandler) Check(ctx context.Context, text string) error {
	h.text = text
	h.totalWords = analysis.CountWords(text)

	start := time.Now()
	list, err := h.checker.RunCheck(ctx, h.text, h.totalWords)
	if list == nil && err != nil {
		return err
	}
	h.current = list
	h.print(time.Since(start), err)
	return nil
}

// Start checks text, then loops over commands until EOF or "quit":
//
//	ignore <word>    unignore <word>    check    reset    quit
func (h *InputHandler) Start(ctx context.Context, text string) error {
	h.out.Print("Synonymy CLI [BETA]")
	if err := h.Check(ctx, text); err != nil {
		return err
	}
	h.out.Print("commands: ignore <word>, unignore <word>, check, reset, quit")

	scanner := bufio.NewScanner(h.in)
	for {
		h.out.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if done := h.handleCommand(ctx, line); done {
			return nil
		}
	}
}

func (h *InputHandler) handleCommand(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "quit", "exit":
		return true
	case "ignore":
		if arg == "" {
			h.out.Error("Usage: ignore <word>")
			return false
		}
		h.ignore.Add(arg)
	case "unignore":
		if arg == "" {
			h.out.Error("Usage: unignore <word>")
			return false
		}
		h.ignore.Remove(arg)
	case "check":
	case "reset":
		h.current = h.checker.Reset()
		h.out.Print("Results cleared.")
		return false
	default:
		h.out.Errorf("Unknown command: %s", cmd)
		return false
	}
	h.refine(ctx)
	return false
}

// refine always hands over the handler's IgnoreSet, also when current is
// empty, so the checker never runs with a stale set.
func (h *InputHandler) refine(ctx context.Context) {
	start := time.Now()
	list, err := h.checker.RefineCheck(ctx, h.text, h.totalWords, h.current, h.ignore.Clone())
	if list == nil && err != nil {
		h.out.Errorf("Check failed: %v", err)
		return
	}
	h.current = list
	h.print(time.Since(start), err)
}

func (h *InputHandler) print(elapsed time.Duration, err error) {
	log.Debugf("Took [ %v ] for %d words", elapsed, h.totalWords)
	if err != nil {
		h.out.Warnf("Synonyms unavailable: %v", err)
	}
	if len(h.current) == 0 {
		h.out.Printf("No overused words in %s words.", utils.FormatWithCommas(h.totalWords))
		return
	}

	h.out.Printf("Found %d overused words in %s words:", len(h.current), utils.FormatWithCommas(h.totalWords))
	h.out.Printf("    %-20s %6s %6s  %s", "WORD", "FOUND", "SCORE", "SYNONYMS")
	for i, w := range h.current {
		syns := "-"
		if len(w.Synonyms) > 0 {
			syns = utils.Truncate(strings.Join(w.Synonyms, ", "), 60)
		}
		h.out.Printf("%2d. %-20s %6d %5dx  %s", i+1, w.Word, w.NumFound, w.Multiplier, syns)
	}
}
