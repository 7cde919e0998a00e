package input

import (
	"context"

	"eventledger/internal/application"
	"eventledger/internal/domain/entities"
)

type EventUseCase interface {
	CreateEvent(ctx context.Context, requester *entities.Identity, in application.EventInput) (*entities.Event, error)
	ListEvents(ctx context.Context, requester *entities.Identity, scope entities.EventScope) ([]entities.Event, error)
	GetEvent(ctx context.Context, id uint) (*entities.Event, error)
	DeleteEvent(ctx context.Context, requester *entities.Identity, id uint) error
}
