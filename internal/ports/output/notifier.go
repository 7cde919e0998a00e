package output

import (
	"context"

	"eventledger/internal/domain/entities"
)

// Notifier delivers attendee reminders for an event.
type Notifier interface {
	NotifyReminder(ctx context.Context, event *entities.Event, recipients []entities.Registration) error
}
