package services

import (
	"errors"
	"fmt"
	"strings"
)

// Markers classify failures across packages. Match them with errors.Is.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap tags err with marker and prefixes "stage: operation: message". A nil
// marker is treated as ErrTransient.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	detail := joinNonEmpty(stage, operation, message)
	if detail == "" {
		detail = "service failure"
	}
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// Hint suggests the next step for a failure carrying one of the markers.
// It returns "" when no marker matches.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "check the config file with `cdrip config show` and run `cdrip doctor`"
	case errors.Is(err, ErrValidation):
		return "fix the album metadata and try again"
	case errors.Is(err, ErrNotFound):
		return "enter the metadata with --manual or --tracks-file"
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrTransient):
		return "this may be temporary; try again in a moment"
	case errors.Is(err, ErrExternalTool):
		return "check that a readable audio CD is in the drive"
	}
	return ""
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ": ")
}
