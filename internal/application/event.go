package application

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

// EventInput is the caller-supplied part of a new event.
type EventInput struct {
	Title       string
	Description string
	Date        string
	Location    string
	Capacity    int
	Category    string
}

type EventService struct {
	eventRepo output.EventRepository
	policy    Policy
}

func NewEventService(eventRepo output.EventRepository, policy Policy) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		policy:    policy,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, requester *entities.Identity, in EventInput) (*entities.Event, error) {
	if err := s.policy.Require(requester, CapCreateEvent, nil); err != nil {
		return nil, err
	}
	event, err := buildEvent(in)
	if err != nil {
		return nil, err
	}
	event.OwnerID = requester.UserID
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents returns the public catalog for ScopeAll and the requester's own
// events for ScopeOwned.
func (s *EventService) ListEvents(ctx context.Context, requester *entities.Identity, scope entities.EventScope) ([]entities.Event, error) {
	if scope == entities.ScopeOwned {
		if err := s.policy.Require(requester, CapListOwned, nil); err != nil {
			return nil, err
		}
		return s.eventRepo.ListByOwner(ctx, requester.UserID)
	}
	return s.eventRepo.List(ctx)
}

// GetEvent returns the event with its participants.
func (s *EventService) GetEvent(ctx context.Context, id uint) (*entities.Event, error) {
	return s.eventRepo.FindWithParticipants(ctx, id)
}

// DeleteEvent removes the event and, atomically with it, its whole ledger.
func (s *EventService) DeleteEvent(ctx context.Context, requester *entities.Identity, id uint) error {
	if requester == nil {
		return domain.ErrUnauthorized
	}
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.Require(requester, CapManageEvent, event); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, id)
}

func buildEvent(in EventInput) (*entities.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Invalid("title", "required")
	}
	if in.Capacity <= 0 {
		return nil, domain.Invalid("capacity", "must be a positive integer")
	}
	// The column is a 32-bit INTEGER.
	if in.Capacity > math.MaxInt32 {
		return nil, domain.Invalid("capacity", fmt.Sprintf("must not exceed %d", math.MaxInt32))
	}
	date, err := NormalizeDate(in.Date)
	if err != nil {
		return nil, err
	}
	return &entities.Event{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Date:        date,
		Location:    strings.TrimSpace(in.Location),
		Capacity:    in.Capacity,
		Category:    strings.TrimSpace(in.Category),
	}, nil
}

// Accepted date inputs, most precise first. Zone-less inputs are read as UTC.
var dateInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// NormalizeDate parses an ISO-8601 date and renders it in domain.DateLayout.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.Invalid("date", "required")
	}
	for _, layout := range dateInputLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC().Format(domain.DateLayout), nil
		}
	}
	return "", domain.Invalid("date", fmt.Sprintf("%q is not an ISO-8601 date", raw))
}
