package ripping

import (
	"fmt"

	"cdripper/internal/services"
)

// Pipeline stages reported by ProcessError.
const (
	StageExtract = "extract"
	StageEncode  = "encode"
)

// ProcessError reports an extractor or encoder failure for one track.
// Detail carries the captured stderr of the failing process.
type ProcessError struct {
	Stage  string
	Track  int
	Detail string
	Err    error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s failed on track %d", e.Stage, e.Track)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap exposes the underlying cause and the external tool marker.
func (e *ProcessError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrExternalTool}
	}
	return []error{e.Err, services.ErrExternalTool}
}
