package logging

import (
	"context"

	"go.uber.org/zap"

	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

var _ output.Notifier = (*LogNotifier)(nil)

// LogNotifier "delivers" reminders by logging them. It is the default when no
// chat channel is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyReminder(_ context.Context, event *entities.Event, recipients []entities.Registration) error {
	for _, r := range recipients {
		n.log.Info("reminder",
			zap.Uint("event_id", event.ID),
			zap.String("event_title", event.Title),
			zap.String("event_date", event.Date),
			zap.Uint("registration_id", r.ID),
			zap.String("name", r.Name))
	}
	return nil
}
