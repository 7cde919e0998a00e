package input

import (
	"context"

	"eventledger/internal/domain/entities"
)

type IdentityUseCase interface {
	Signup(ctx context.Context, name, email, password, department string) (*entities.Session, error)
	Login(ctx context.Context, email, password string) (*entities.Session, error)
	ValidateSession(ctx context.Context, token string) (*entities.Identity, error)
	Me(ctx context.Context, requester *entities.Identity) (*entities.User, error)
	DeleteUser(ctx context.Context, requester *entities.Identity, id uint) error
}
