package output

import (
	"context"

	"eventledger/internal/domain/entities"
)

// UserRepository stores accounts. Create returns domain.ErrDuplicateEmail on
// a case-insensitive email collision; lookups return domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id uint) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	// Delete keeps the user's events and registrations, detached from the
	// account.
	Delete(ctx context.Context, id uint) error
}
