package memstore

import (
	"context"
	"sort"

	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

// Reports reads under the store mutex. A view handed out by Snapshot already
// holds it.
type Reports struct {
	s    *Store
	held bool
}

func (r *Reports) lock() (unlock func()) {
	if r.held {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

// Snapshot runs fn with every write blocked until it returns.
func (r *Reports) Snapshot(_ context.Context, fn func(output.ReportRepository) error) error {
	defer r.lock()()
	return fn(&Reports{s: r.s, held: true})
}

func (r *Reports) Totals(_ context.Context, ownerID uint) (entities.Totals, error) {
	defer r.lock()()
	var t entities.Totals
	for _, e := range r.s.events {
		if ownedBy(ownerID, e) {
			t.Events++
		}
	}
	emails := map[string]struct{}{}
	for _, reg := range r.s.registrations {
		if !ownedBy(ownerID, r.s.events[reg.EventID]) {
			continue
		}
		t.Registrations++
		emails[reg.Email] = struct{}{}
		if _, ok := r.s.attendance[reg.ID]; ok {
			t.Attendance++
		}
	}
	t.Attendees = len(emails)
	return t, nil
}

func (r *Reports) Departments(_ context.Context, ownerID uint) ([]entities.DepartmentCount, error) {
	defer r.lock()()
	return r.departments(func(reg entities.Registration) bool {
		return ownedBy(ownerID, r.s.events[reg.EventID])
	}), nil
}

func (r *Reports) EventDepartments(_ context.Context, eventID uint) ([]entities.DepartmentCount, error) {
	defer r.lock()()
	return r.departments(func(reg entities.Registration) bool { return reg.EventID == eventID }), nil
}

func (r *Reports) departments(keep func(entities.Registration) bool) []entities.DepartmentCount {
	counts := map[string]int{}
	for _, reg := range r.s.registrations {
		if keep(reg) {
			counts[reg.Department]++
		}
	}
	out := make([]entities.DepartmentCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, entities.DepartmentCount{Department: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Department < out[j].Department
		}
		return out[i].Count > out[j].Count
	})
	return out
}

func (r *Reports) EventBreakdown(_ context.Context, ownerID uint) ([]entities.EventCount, error) {
	defer r.lock()()
	out := []entities.EventCount{}
	for _, e := range r.s.events {
		if !ownedBy(ownerID, e) {
			continue
		}
		c := entities.EventCount{EventID: e.ID, Title: e.Title, Date: e.Date}
		for _, reg := range r.s.registrations {
			if reg.EventID != e.ID {
				continue
			}
			c.Registrations++
			if _, ok := r.s.attendance[reg.ID]; ok {
				c.Attendance++
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].EventID < out[j].EventID
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}

func (r *Reports) Categories(_ context.Context, ownerID uint) ([]entities.CategoryCount, error) {
	defer r.lock()()
	counts := map[string]int{}
	for _, e := range r.s.events {
		if ownedBy(ownerID, e) {
			counts[e.Category]++
		}
	}
	out := make([]entities.CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, entities.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Category < out[j].Category
		}
		return out[i].Count > out[j].Count
	})
	return out, nil
}
