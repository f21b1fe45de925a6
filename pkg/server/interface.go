/*
Package server implements msgpack IPC for the overused-word checker.

Clients write a stream of msgpack maps to stdin and read a stream of msgpack
maps from stdout. Logs go to stderr so they never corrupt the stream.

# IPC

Every request carries an id and an action:

	{"id": "r1", "action": "check", "text": "...", "num_words": 214}
	{"id": "r2", "action": "text", "text": "...", "num_words": 215}
	{"id": "r3", "action": "ignore", "word": "important"}
	{"id": "r4", "action": "ignore", "words": ["really", "very"]}
	{"id": "r5", "action": "unignore", "word": "important"}
	{"id": "r6", "action": "reset"}
	{"id": "r7", "action": "state"}

num_words is optional; when missing the server counts whitespace-separated
words itself. "ignore" with words replaces the whole ignore set.

Responses echo the id:

	{"id": "r1", "status": "ok", "overused": [{"word": "important", "numFound": 9,
	 "expectedFrequency": 0.001428, "multiplier": 30, "synonyms": ["vital"]}],
	 "state": "settled", "run": 3, "t": 41}

"check" is answered when its run commits, so a later "text" may be answered
first. A check overtaken by a newer run is answered with status "superseded".
Results the server computes on its own (after the debounce window of a "text"
edit, or after an ignore change) are pushed with an empty id and status
"result". If the synonym service failed the list is still sent, with the
failure in "error".

On startup the server writes a ready message:

	{"status": "ready", "first_visit": true, "text_len": 0}
*/
package server

import (
	"github.com/bastiangx/synonymy/pkg/analysis"
)

// Request actions.
const (
	ActionCheck    = "check"
	ActionText     = "text"
	ActionIgnore   = "ignore"
	ActionUnignore = "unignore"
	ActionReset    = "reset"
	ActionState    = "state"
)

// Response statuses.
const (
	StatusReady      = "ready"
	StatusOK         = "ok"
	StatusResult     = "result"
	StatusSuperseded = "superseded"
	StatusError      = "error"
)

// Request is one client message.
type Request struct {
	ID       string   `msgpack:"id"`
	Action   string   `msgpack:"action"`
	Text     string   `msgpack:"text,omitempty"`
	NumWords *int     `msgpack:"num_words,omitempty"`
	Word     string   `msgpack:"word,omitempty"`
	Words    []string `msgpack:"words,omitempty"`
}

// Response carries the session state after an action.
type Response struct {
	ID        string                `msgpack:"id"`
	Status    string                `msgpack:"status"`
	Overused  []analysis.ScoredWord `msgpack:"overused"`
	Ignored   []string              `msgpack:"ignored,omitempty"`
	Error     string                `msgpack:"error,omitempty"`
	State     string                `msgpack:"state"`
	Run       uint64                `msgpack:"run"`
	TimeTaken int64                 `msgpack:"t"`
}

// ReadyMessage is written once before any request is read.
type ReadyMessage struct {
	Status     string `msgpack:"status"`
	FirstVisit bool   `msgpack:"first_visit"`
	TextLength int    `msgpack:"text_len"`
	Text       string `msgpack:"text,omitempty"`
}

// ErrorResponse reports a request that could not be handled.
type ErrorResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"e"`
	Code   int    `msgpack:"c"`
}
