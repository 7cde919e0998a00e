package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

const minPasswordLength = 6

type IdentityService struct {
	userRepo output.UserRepository
	hasher   output.PasswordHasher
	tokens   output.TokenIssuer
	policy   Policy
}

func NewIdentityService(
	userRepo output.UserRepository,
	hasher output.PasswordHasher,
	tokens output.TokenIssuer,
) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		policy:   Policy{},
	}
}

// Signup creates an attendee account and opens a session for it.
func (s *IdentityService) Signup(ctx context.Context, name, email, password, department string) (*entities.Session, error) {
	user, err := s.createUser(ctx, name, email, password, department, domain.RoleAttendee)
	if err != nil {
		return nil, err
	}
	return s.open(user)
}

// Login never tells an unknown email apart from a wrong password.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*entities.Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.open(user)
}

// ValidateSession verifies the token and then checks that its user still
// exists. The returned identity reflects the stored record, not the claims.
func (s *IdentityService) ValidateSession(ctx context.Context, token string) (*entities.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrUnauthorized
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	id := user.Identity()
	return &id, nil
}

func (s *IdentityService) Me(ctx context.Context, requester *entities.Identity) (*entities.User, error) {
	if requester == nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, requester.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthorized
	}
	return user, err
}

// DeleteUser removes an account. An admin cannot remove their own account,
// so the ledger always keeps the admin performing the deletion.
func (s *IdentityService) DeleteUser(ctx context.Context, requester *entities.Identity, id uint) error {
	if err := s.policy.Require(requester, CapDeleteUser, nil); err != nil {
		return err
	}
	if requester.UserID == id {
		return domain.Invalid("id", "cannot delete your own account")
	}
	return s.userRepo.Delete(ctx, id)
}

// EnsureAdmin creates the given admin account unless an admin already exists.
// It reports whether an account was created.
func (s *IdentityService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	count, err := s.userRepo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.createUser(ctx, name, email, password, "", domain.RoleAdmin); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *IdentityService) createUser(ctx context.Context, name, email, password, department, role string) (*entities.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name", "required")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, domain.Invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   strings.TrimSpace(department),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *IdentityService) open(user *entities.User) (*entities.Session, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &entities.Session{Token: token, User: *user}, nil
}

// normalizeEmail trims and lowercases an address after checking its syntax.
// Lowercase email is the attendee key of the ledger.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domain.Invalid("email", "required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.Invalid("email", "not a valid address")
	}
	return email, nil
}
