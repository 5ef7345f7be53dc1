package workflow

import (
	"context"
	"errors"
	"log/slog"

	"cdripper/internal/logging"
	"cdripper/internal/notifications"
)

func (m *Manager) notify(ctx context.Context, logger *slog.Logger, event notifications.Event, payload notifications.Payload) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Publish(ctx, event, payload); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("job canceled, notification skipped", logging.String("event", string(event)))
			return
		}
		logging.WarnWithContext(logger, "notification failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "ntfy subscribers will not see this event"),
		)
	}
}
