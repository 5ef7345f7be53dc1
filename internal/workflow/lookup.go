package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"cdripper/internal/disc/fingerprint"
	"cdripper/internal/history"
	"cdripper/internal/logging"
	"cdripper/internal/notifications"
	"cdripper/internal/services/musicbrainz"
)

// LookupRequest configures a lookup job.
type LookupRequest struct {
	// Device defaults to the configured drive.
	Device string
	// Verbose echoes the raw scan output and service response as log events.
	Verbose bool
	// TOCOnly stops after the fingerprint is built.
	TOCOnly bool
}

// StartLookup launches a lookup job. It fails with ErrJobAlreadyRunning when
// the device is busy.
func (m *Manager) StartLookup(ctx context.Context, req LookupRequest) (*Job, error) {
	verbose := req.Verbose || m.cfg.MusicBrainz.Verbose
	return m.start(ctx, KindLookup, req.Device, verbose, func(ctx context.Context, job *Job, logger *slog.Logger) (Result, error) {
		lookup, err := m.runLookup(ctx, job, logger, req, verbose)
		entry := history.Entry{}
		if lookup != nil {
			entry.Fingerprint = lookup.Fingerprint
			if len(lookup.Candidates) == 1 {
				entry.Artist = lookup.Candidates[0].Artist
				entry.Album = lookup.Candidates[0].Title
			}
		}
		if !req.TOCOnly {
			m.record(ctx, logger, job, entry, err)
		}
		return Result{Lookup: lookup}, err
	})
}

func (m *Manager) runLookup(ctx context.Context, job *Job, logger *slog.Logger, req LookupRequest, verbose bool) (*LookupResult, error) {
	logger.Info("reading table of contents", logging.String(logging.FieldEventType, "scan_started"))
	scan, err := m.scanner.ReadTOC(ctx, job.Device)
	if err != nil {
		logging.ErrorWithContext(logger, "table of contents read failed", "scan_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that an audio CD is loaded and the device path is correct"),
		)
		return nil, err
	}
	if verbose {
		for _, line := range strings.Split(strings.TrimRight(scan.Raw, "\n"), "\n") {
			logger.Debug(line)
		}
	}

	result := &LookupResult{
		Device:      job.Device,
		TOC:         scan.TOC,
		Fingerprint: fingerprint.Build(scan.TOC),
	}
	logger.Info("scan complete",
		logging.Int("tracks", scan.TOC.TrackCount),
		logging.Int("leadout", scan.TOC.LeadoutSector),
		logging.String("fingerprint", result.Fingerprint),
	)
	if req.TOCOnly {
		job.progress(100)
		return result, nil
	}
	job.progress(33)

	var observer musicbrainz.ResponseObserver
	if verbose {
		observer = func(url string, status int, body []byte) {
			logger.Debug("musicbrainz response", logging.String("url", url), logging.Int("status", status))
			logger.Debug(string(body))
		}
	}
	candidates, err := m.newLooker(observer).Lookup(ctx, result.Fingerprint)
	if err != nil {
		if errors.Is(err, musicbrainz.ErrNoMatch) {
			logger.Warn("no matching release", logging.Error(err), logging.String(logging.FieldEventType, "lookup_no_match"))
			m.notify(ctx, logger, notifications.EventNoMatch, notifications.Payload{"fingerprint": result.Fingerprint})
		} else {
			logging.ErrorWithContext(logger, "metadata lookup failed", "lookup_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "retry the lookup or enter metadata manually"),
			)
		}
		return result, err
	}
	result.Candidates = candidates
	result.Decision = musicbrainz.Decide(candidates)
	logger.Info("lookup complete",
		logging.Int("candidates", len(candidates)),
		logging.String("decision", result.Decision.String()),
	)
	job.progress(66)

	if result.Decision == musicbrainz.DecisionConfirm && candidates[0].HasFrontCoverArt {
		result.Cover = m.fetchCover(ctx, logger, candidates[0].ID)
	}
	job.progress(100)
	return result, nil
}

// FetchCover downloads the front cover of releaseID. A missing image or
// disabled cover art yields nil without error.
func (m *Manager) FetchCover(ctx context.Context, releaseID string) ([]byte, error) {
	if m.covers == nil || strings.TrimSpace(releaseID) == "" {
		return nil, nil
	}
	return m.covers.FetchFront(ctx, releaseID)
}

func (m *Manager) fetchCover(ctx context.Context, logger *slog.Logger, releaseID string) []byte {
	if m.covers == nil {
		return nil
	}
	data, err := m.covers.FetchFront(ctx, releaseID)
	if err != nil {
		logging.WarnWithContext(logger, "cover art unavailable", "cover_art_failed",
			logging.String("release_id", releaseID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "album will be ripped without cover art"),
		)
		return nil
	}
	logger.Info("cover art downloaded", logging.Int("bytes", len(data)))
	return data
}
