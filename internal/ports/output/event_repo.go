package output

import (
	"context"

	"eventledger/internal/domain/entities"
)

// EventRepository stores the catalog. Reads fill RegistrationCount from the
// ledger. FindByID returns the event row alone; FindWithParticipants also
// attaches participants with derived status, read from one snapshot.
type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id uint) (*entities.Event, error)
	FindWithParticipants(ctx context.Context, id uint) (*entities.Event, error)
	List(ctx context.Context) ([]entities.Event, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]entities.Event, error)
	// Delete removes the event with its registrations and attendance marks in
	// one atomic operation.
	Delete(ctx context.Context, id uint) error
}
