package memstore

import (
	"context"
	"sort"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
)

type Attendance struct{ s *Store }

func (a *Attendance) Mark(_ context.Context, eventID, registrationID uint) (*entities.Attendance, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	reg, ok := a.s.registrations[registrationID]
	if !ok || reg.EventID != eventID {
		return nil, domain.ErrNotRegistered
	}
	return a.mark(reg)
}

func (a *Attendance) MarkByEmail(_ context.Context, eventID uint, email string) (*entities.Attendance, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for _, reg := range a.s.registrations {
		if reg.EventID == eventID && reg.Email == email {
			return a.mark(reg)
		}
	}
	return nil, domain.ErrNotRegistered
}

func (a *Attendance) mark(reg entities.Registration) (*entities.Attendance, error) {
	if _, done := a.s.attendance[reg.ID]; done {
		return nil, domain.ErrAlreadyCheckedIn
	}
	mark := entities.Attendance{
		ID:             a.s.id(),
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		AttendedAt:     a.s.now(),
	}
	a.s.attendance[reg.ID] = mark
	return &mark, nil
}

func (a *Attendance) Set(_ context.Context, registrationID uint, attended bool) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	reg, ok := a.s.registrations[registrationID]
	if !ok {
		return domain.ErrRegistrationNotFound
	}
	if !attended {
		delete(a.s.attendance, registrationID)
		return nil
	}
	if _, done := a.s.attendance[registrationID]; !done {
		_, _ = a.mark(reg)
	}
	return nil
}

func (a *Attendance) FindByEventID(_ context.Context, eventID uint) ([]entities.AttendanceEntry, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	out := []entities.AttendanceEntry{}
	ids := map[uint]uint{}
	for rid, mark := range a.s.attendance {
		if mark.EventID != eventID {
			continue
		}
		reg := a.s.registrations[rid]
		ids[rid] = mark.ID
		out = append(out, entities.AttendanceEntry{
			RegistrationID: rid,
			Name:           reg.Name,
			Email:          reg.Email,
			Department:     reg.Department,
			AttendedAt:     mark.AttendedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AttendedAt.Equal(out[j].AttendedAt) {
			return ids[out[i].RegistrationID] < ids[out[j].RegistrationID]
		}
		return out[i].AttendedAt.Before(out[j].AttendedAt)
	})
	return out, nil
}

func (a *Attendance) CountByEventID(_ context.Context, eventID uint) (int64, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	var n int64
	for _, mark := range a.s.attendance {
		if mark.EventID == eventID {
			n++
		}
	}
	return n, nil
}
