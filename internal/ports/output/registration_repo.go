package output

import (
	"context"

	"eventledger/internal/domain/entities"
)

// RegistrationRepository is the registration ledger.
type RegistrationRepository interface {
	// Create inserts the registration atomically with respect to concurrent
	// inserts of the same (event, email) key. It returns
	// domain.ErrEventNotFound, domain.ErrDuplicateRegistration, or, when
	// enforceCapacity is set and the event is full, domain.ErrEventFull.
	Create(ctx context.Context, registration *entities.Registration, enforceCapacity bool) error
	FindByID(ctx context.Context, id uint) (*entities.Registration, error)
	FindByEventIDAndEmail(ctx context.Context, eventID uint, email string) (*entities.Registration, error)
	FindByEventID(ctx context.Context, eventID uint) ([]entities.Registration, error)
	FindByUserID(ctx context.Context, userID uint) ([]entities.Registration, error)
	FindByOwnerID(ctx context.Context, ownerID uint) ([]entities.Registration, error)
	CountByEventID(ctx context.Context, eventID uint) (int64, error)
}
