package history

import (
	"time"

	"cdripper/internal/ripping"
)

// Kind identifies the job type.
type Kind string

const (
	KindLookup Kind = "lookup"
	KindRip    Kind = "rip"
)

// Status is the terminal state of a job.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Entry is one recorded job.
type Entry struct {
	ID          string
	Kind        Kind
	Device      string
	Artist      string
	Album       string
	Format      string
	Fingerprint string
	Status      Status
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Tracks      []ripping.TrackResult
}

// Duration reports how long the job ran.
func (e Entry) Duration() time.Duration {
	if e.FinishedAt.Before(e.StartedAt) {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

// Succeeded counts the tracks that made it to disk.
func (e Entry) Succeeded() int {
	n := 0
	for _, t := range e.Tracks {
		if t.Succeeded {
			n++
		}
	}
	return n
}
