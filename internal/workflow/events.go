package workflow

import (
	"log/slog"

	"cdripper/internal/disc"
	"cdripper/internal/ripping"
	"cdripper/internal/services/musicbrainz"
)

// Kind identifies the job type.
type Kind string

const (
	KindLookup Kind = "lookup"
	KindRip    Kind = "rip"
)

// EventKind classifies job events.
type EventKind string

const (
	EventLog      EventKind = "log"
	EventProgress EventKind = "progress"
	EventDone     EventKind = "done"
	EventFailed   EventKind = "failed"
)

// Terminal reports whether the event ends the job's event stream.
func (k EventKind) Terminal() bool {
	return k == EventDone || k == EventFailed
}

// Event is one entry in a job's event stream.
type Event struct {
	JobID   string
	Kind    EventKind
	Level   slog.Level
	Message string
	Percent int
	Result  *Result
	Err     error
}

// LookupResult is the outcome of a lookup job. TOC and Fingerprint are set
// whenever the scan succeeded, even if the lookup itself failed.
type LookupResult struct {
	Device      string
	TOC         *disc.TOC
	Fingerprint string
	Candidates  []musicbrainz.ReleaseCandidate
	Decision    musicbrainz.Decision
	// Cover holds the front image of the single candidate when one was found.
	Cover []byte
}

// Result is the payload of a terminal event. Failed rip jobs still carry the
// results of the tracks that were attempted.
type Result struct {
	Lookup    *LookupResult
	Tracks    []ripping.TrackResult
	OutputDir string
}
