package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cdripper/internal/history"
	"cdripper/internal/logging"
)

// record persists entry. History failures never change the job outcome.
func (m *Manager) record(ctx context.Context, logger *slog.Logger, job *Job, entry history.Entry, jobErr error) {
	if m.history == nil {
		return
	}
	entry.ID = job.ID
	entry.Kind = history.Kind(job.Kind)
	entry.Device = job.Device
	entry.StartedAt = job.Started
	entry.FinishedAt = time.Now()
	switch {
	case jobErr == nil:
		entry.Status = history.StatusSucceeded
	case errors.Is(jobErr, context.Canceled):
		entry.Status = history.StatusCanceled
		entry.Error = jobErr.Error()
	default:
		entry.Status = history.StatusFailed
		entry.Error = jobErr.Error()
	}

	// The job context may already be canceled; history still needs the row.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := m.history.Record(recordCtx, entry); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
		)
	}
}
