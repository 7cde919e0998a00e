package memstore

import (
	"context"
	"sort"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
)

type Registrations struct{ s *Store }

func (r *Registrations) Create(_ context.Context, reg *entities.Registration, enforceCapacity bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event, ok := r.s.events[reg.EventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	for _, existing := range r.s.registrations {
		if existing.EventID != reg.EventID {
			continue
		}
		if existing.Email == reg.Email || (reg.UserID != 0 && existing.UserID == reg.UserID) {
			return domain.ErrDuplicateRegistration
		}
	}
	if enforceCapacity && r.s.countRegistrations(reg.EventID) >= event.Capacity {
		return domain.ErrEventFull
	}
	reg.ID = r.s.id()
	reg.RegisteredAt = r.s.now()
	reg.Status = domain.StatusRegistered
	stored := *reg
	stored.EventTitle, stored.EventDate, stored.EventLocation = "", "", ""
	r.s.registrations[reg.ID] = stored
	return nil
}

func (r *Registrations) FindByID(_ context.Context, id uint) (*entities.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.registrations[id]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	out := r.s.projection(reg)
	return &out, nil
}

func (r *Registrations) FindByEventIDAndEmail(_ context.Context, eventID uint, email string) (*entities.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, reg := range r.s.registrations {
		if reg.EventID == eventID && reg.Email == email {
			out := r.s.projection(reg)
			return &out, nil
		}
	}
	return nil, domain.ErrRegistrationNotFound
}

func (r *Registrations) FindByEventID(_ context.Context, eventID uint) ([]entities.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.s.registrationsWhere(func(reg entities.Registration) bool { return reg.EventID == eventID })
	byRegisteredAt(out)
	return out, nil
}

func (r *Registrations) FindByUserID(_ context.Context, userID uint) ([]entities.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.s.registrationsWhere(func(reg entities.Registration) bool { return reg.UserID == userID })
	sort.Slice(out, func(i, j int) bool {
		if out[i].EventDate == out[j].EventDate {
			return out[i].ID < out[j].ID
		}
		return out[i].EventDate < out[j].EventDate
	})
	return out, nil
}

// FindByOwnerID lists newest registrations first.
func (r *Registrations) FindByOwnerID(_ context.Context, ownerID uint) ([]entities.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.s.registrationsWhere(func(reg entities.Registration) bool {
		e, ok := r.s.events[reg.EventID]
		return ok && e.OwnerID == ownerID
	})
	byRegisteredAt(out)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *Registrations) CountByEventID(_ context.Context, eventID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(r.s.countRegistrations(eventID)), nil
}
