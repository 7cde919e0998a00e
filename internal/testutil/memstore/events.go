package memstore

import (
	"context"
	"sort"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
)

type Events struct{ s *Store }

func (e *Events) Create(_ context.Context, event *entities.Event) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	event.ID = e.s.id()
	event.CreatedAt = e.s.now()
	stored := *event
	stored.Participants = nil
	stored.RegistrationCount = 0
	e.s.events[event.ID] = stored
	return nil
}

func (e *Events) FindByID(_ context.Context, id uint) (*entities.Event, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	event, ok := e.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	event.RegistrationCount = e.s.countRegistrations(id)
	return &event, nil
}

func (e *Events) FindWithParticipants(_ context.Context, id uint) (*entities.Event, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	event, ok := e.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	participants := e.s.registrationsWhere(func(r entities.Registration) bool { return r.EventID == id })
	byRegisteredAt(participants)
	for i := range participants {
		participants[i].EventTitle, participants[i].EventDate, participants[i].EventLocation = "", "", ""
	}
	event.Participants = participants
	event.RegistrationCount = len(participants)
	return &event, nil
}

func (e *Events) List(_ context.Context) ([]entities.Event, error) {
	return e.list(func(entities.Event) bool { return true }), nil
}

func (e *Events) ListByOwner(_ context.Context, ownerID uint) ([]entities.Event, error) {
	return e.list(func(ev entities.Event) bool { return ev.OwnerID == ownerID }), nil
}

func (e *Events) list(keep func(entities.Event) bool) []entities.Event {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	out := []entities.Event{}
	for _, ev := range e.s.events {
		if keep(ev) {
			ev.RegistrationCount = e.s.countRegistrations(ev.ID)
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].ID < out[j].ID
		}
		return out[i].Date < out[j].Date
	})
	return out
}

func (e *Events) Delete(_ context.Context, id uint) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if _, ok := e.s.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(e.s.events, id)
	for rid, r := range e.s.registrations {
		if r.EventID == id {
			delete(e.s.registrations, rid)
			delete(e.s.attendance, rid)
		}
	}
	return nil
}
