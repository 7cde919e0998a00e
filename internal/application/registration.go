package application

import (
	"context"
	"errors"
	"strings"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

type RegistrationService struct {
	registrationRepo output.RegistrationRepository
	eventRepo        output.EventRepository
	userRepo         output.UserRepository
	policy           Policy
	enforceCapacity  bool
}

func NewRegistrationService(
	registrationRepo output.RegistrationRepository,
	eventRepo output.EventRepository,
	userRepo output.UserRepository,
	policy Policy,
	enforceCapacity bool,
) *RegistrationService {
	return &RegistrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		policy:           policy,
		enforceCapacity:  enforceCapacity,
	}
}

// Register adds an anonymous attendee to the event's ledger.
func (s *RegistrationService) Register(ctx context.Context, eventID uint, attendee entities.Attendee) (*entities.Registration, error) {
	name := strings.TrimSpace(attendee.Name)
	if name == "" {
		return nil, domain.Invalid("name", "required")
	}
	email, err := normalizeEmail(attendee.Email)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, &entities.Registration{
		EventID:    eventID,
		Name:       name,
		Email:      email,
		Department: strings.TrimSpace(attendee.Department),
	})
}

// RegisterUser registers the requester with the key taken from their stored
// account, so both registration paths share one ledger.
func (s *RegistrationService) RegisterUser(ctx context.Context, requester *entities.Identity, eventID uint) (*entities.Registration, error) {
	if err := s.policy.Require(requester, CapRegisterSelf, nil); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, requester.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(user.Email)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, &entities.Registration{
		EventID:    eventID,
		UserID:     user.ID,
		Name:       user.Name,
		Email:      email,
		Department: user.Department,
	})
}

func (s *RegistrationService) create(ctx context.Context, r *entities.Registration) (*entities.Registration, error) {
	if r.EventID == 0 {
		return nil, domain.Invalid("event_id", "required")
	}
	r.Status = domain.StatusRegistered
	if err := s.registrationRepo.Create(ctx, r, s.enforceCapacity); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RegistrationService) ListRegistrationsForEvent(ctx context.Context, requester *entities.Identity, eventID uint) ([]entities.Registration, error) {
	if requester == nil {
		return nil, domain.ErrUnauthorized
	}
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Require(requester, CapManageEvent, event); err != nil {
		return nil, err
	}
	return s.registrationRepo.FindByEventID(ctx, eventID)
}

func (s *RegistrationService) ListRegistrationsForUser(ctx context.Context, requester *entities.Identity) ([]entities.Registration, error) {
	if requester == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.registrationRepo.FindByUserID(ctx, requester.UserID)
}

// ListParticipants returns every registration of the requester's events,
// newest first.
func (s *RegistrationService) ListParticipants(ctx context.Context, requester *entities.Identity) ([]entities.Registration, error) {
	if err := s.policy.Require(requester, CapListOwned, nil); err != nil {
		return nil, err
	}
	return s.registrationRepo.FindByOwnerID(ctx, requester.UserID)
}
