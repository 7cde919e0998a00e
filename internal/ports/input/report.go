package input

import (
	"context"

	"eventledger/internal/application"
	"eventledger/internal/domain/entities"
)

type ReportUseCase interface {
	Stats(ctx context.Context, requester *entities.Identity) (*entities.Report, error)
	Insights(ctx context.Context, requester *entities.Identity) (*entities.Report, entities.Insight, error)
	PredictAttendance(ctx context.Context, requester *entities.Identity, eventID uint) (*entities.Event, entities.Insight, error)
	Forecast(ctx context.Context, requester *entities.Identity, in application.EventInput) (entities.Insight, error)
}

type ReminderUseCase interface {
	SendReminders(ctx context.Context, requester *entities.Identity, eventID uint) (int, error)
}
