package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cdripper/internal/history"
	"cdripper/internal/logging"
	"cdripper/internal/notifications"
	"cdripper/internal/ripping"
)

// StartRip validates ripJob and launches it. Invalid jobs and busy devices
// are rejected before anything starts.
func (m *Manager) StartRip(ctx context.Context, ripJob ripping.RipJob) (*Job, error) {
	if ripJob.DevicePath == "" {
		ripJob.DevicePath = m.cfg.Drive.Device
	}
	if ripJob.OutputRoot == "" {
		ripJob.OutputRoot = m.cfg.Paths.OutputDir
	}
	if err := ripJob.Validate(); err != nil {
		return nil, err
	}
	return m.start(ctx, KindRip, ripJob.DevicePath, false, func(ctx context.Context, job *Job, logger *slog.Logger) (Result, error) {
		result, err := m.runRip(ctx, job, logger, ripJob)
		m.record(ctx, logger, job, history.Entry{
			Artist: ripJob.Artist,
			Album:  ripJob.Album,
			Format: ripJob.Format.Extension(),
			Tracks: result.Tracks,
		}, err)
		m.notifyRipOutcome(ctx, logger, job, ripJob, result, err)
		return result, err
	})
}

func (m *Manager) runRip(ctx context.Context, job *Job, logger *slog.Logger, ripJob ripping.RipJob) (Result, error) {
	result := Result{OutputDir: ripJob.OutputDir()}

	if m.preflight != nil {
		if err := m.preflight(ctx, ripJob.Format); err != nil {
			logging.ErrorWithContext(logger, "preflight failed", "preflight_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run cdrip doctor"),
			)
			return result, err
		}
	}

	logger.Info("rip started",
		logging.String("artist", ripJob.Artist),
		logging.String("album", ripJob.Album),
		logging.String("format", string(ripJob.Format)),
		logging.Int("tracks", len(ripJob.Tracks)),
		logging.String("output_dir", result.OutputDir),
		logging.String(logging.FieldEventType, "rip_started"),
	)
	m.notify(ctx, logger, notifications.EventRipStarted, notifications.Payload{
		"artist": ripJob.Artist,
		"album":  ripJob.Album,
		"tracks": len(ripJob.Tracks),
	})

	observer := &ripping.Observer{
		TrackStarted: func(track ripping.Track, index, total int) {
			logger.Info("ripping track",
				logging.String("track", formatPosition(index, total)),
				logging.String("title", track.DisplayTitle()),
			)
		},
		TrackCompleted: func(tr ripping.TrackResult) {
			logger.Info("track complete", logging.Int("track", tr.TrackNumber), logging.String("path", tr.OutputPath))
		},
		TrackFailed: func(tr ripping.TrackResult) {
			logger.Warn("track failed", logging.Int("track", tr.TrackNumber), logging.String("detail", tr.ErrorDetail))
		},
		Progress: job.progress,
	}

	tracks, err := m.ripper.Run(ctx, ripJob, observer)
	result.Tracks = tracks
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			logger.Warn("rip canceled", logging.Int("completed_tracks", countSucceeded(tracks)))
		} else {
			logging.ErrorWithContext(logger, "rip failed", "rip_failed",
				logging.Error(err),
				logging.Int("completed_tracks", countSucceeded(tracks)),
				logging.String(logging.FieldImpact, "remaining tracks were not ripped"),
			)
		}
		return result, err
	}

	logger.Info("rip complete",
		logging.Int("tracks", len(tracks)),
		logging.Duration("elapsed", time.Since(job.Started).Round(time.Second)),
		logging.String(logging.FieldEventType, "rip_completed"),
	)

	if m.cfg.Drive.AutoEject {
		if err := m.ejector.Eject(ctx, job.Device); err != nil {
			logging.WarnWithContext(logger, "eject failed", "eject_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "disc remains in the drive"),
			)
		}
	}
	return result, nil
}

func (m *Manager) notifyRipOutcome(ctx context.Context, logger *slog.Logger, job *Job, ripJob ripping.RipJob, result Result, err error) {
	if err == nil {
		m.notify(ctx, logger, notifications.EventRipCompleted, notifications.Payload{
			"artist":    ripJob.Artist,
			"album":     ripJob.Album,
			"tracks":    len(result.Tracks),
			"duration":  time.Since(job.Started),
			"outputDir": result.OutputDir,
		})
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.NotificationTimeout())
	defer cancel()
	m.notify(notifyCtx, logger, notifications.EventRipFailed, notifications.Payload{
		"artist":    ripJob.Artist,
		"album":     ripJob.Album,
		"tracks":    len(ripJob.Tracks),
		"succeeded": countSucceeded(result.Tracks),
		"error":     err,
	})
}

func countSucceeded(tracks []ripping.TrackResult) int {
	n := 0
	for _, t := range tracks {
		if t.Succeeded {
			n++
		}
	}
	return n
}
