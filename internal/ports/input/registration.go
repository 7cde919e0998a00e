package input

import (
	"context"

	"eventledger/internal/domain/entities"
)

type RegistrationUseCase interface {
	Register(ctx context.Context, eventID uint, attendee entities.Attendee) (*entities.Registration, error)
	RegisterUser(ctx context.Context, requester *entities.Identity, eventID uint) (*entities.Registration, error)
	ListRegistrationsForEvent(ctx context.Context, requester *entities.Identity, eventID uint) ([]entities.Registration, error)
	ListRegistrationsForUser(ctx context.Context, requester *entities.Identity) ([]entities.Registration, error)
	ListParticipants(ctx context.Context, requester *entities.Identity) ([]entities.Registration, error)
}
