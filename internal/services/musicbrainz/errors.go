package musicbrainz

import (
	"errors"
	"fmt"

	"cdripper/internal/services"
)

var (
	// ErrNetwork reports a transport failure or non-success HTTP status.
	ErrNetwork = errors.New("metadata lookup network error")
	// ErrNoMatch reports a well-formed response without any release.
	ErrNoMatch = errors.New("no matching release")
)

// NoMatchError carries the detail of an ErrNoMatch result. Stub is set when
// the service only knows the disc as a crowd-sourced stub.
type NoMatchError struct {
	Fingerprint string
	Stub        bool
	StubArtist  string
	StubTitle   string
}

func (e *NoMatchError) Error() string {
	if e.Stub {
		if e.StubTitle != "" {
			return fmt.Sprintf("disc %s is only known as a stub (%s - %s); enter metadata manually", e.Fingerprint, e.StubArtist, e.StubTitle)
		}
		return fmt.Sprintf("disc %s is only known as a stub; enter metadata manually", e.Fingerprint)
	}
	return fmt.Sprintf("no releases found for disc %s", e.Fingerprint)
}

// Unwrap lets errors.Is match both ErrNoMatch and services.ErrNotFound.
func (e *NoMatchError) Unwrap() []error {
	return []error{ErrNoMatch, services.ErrNotFound}
}

func networkError(message string, err error) error {
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrNetwork, err)
	} else {
		err = ErrNetwork
	}
	return services.Wrap(services.ErrTransient, "musicbrainz", "lookup", message, err)
}
