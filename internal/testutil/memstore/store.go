// Package memstore is an in-memory implementation of the output repositories
// for application and handler tests. It keeps the ledger guarantees of the
// PostgreSQL store: one registration per (event, email), at most one
// attendance mark per registration, cascading event deletion and SET NULL
// on user deletion.
package memstore

import (
	"sort"
	"strings"
	"sync"
	"time"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

var (
	_ output.UserRepository         = (*Users)(nil)
	_ output.EventRepository        = (*Events)(nil)
	_ output.RegistrationRepository = (*Registrations)(nil)
	_ output.AttendanceRepository   = (*Attendance)(nil)
	_ output.ReportRepository       = (*Reports)(nil)
)

// Store holds every table behind one mutex.
type Store struct {
	mu sync.Mutex

	users         map[uint]entities.User
	events        map[uint]entities.Event
	registrations map[uint]entities.Registration
	attendance    map[uint]entities.Attendance // keyed by registration id

	nextID uint
	last   time.Time
}

func New() *Store {
	return &Store{
		users:         map[uint]entities.User{},
		events:        map[uint]entities.Event{},
		registrations: map[uint]entities.Registration{},
		attendance:    map[uint]entities.Attendance{},
	}
}

func (s *Store) Users() *Users                 { return &Users{s} }
func (s *Store) Events() *Events               { return &Events{s} }
func (s *Store) Registrations() *Registrations { return &Registrations{s} }
func (s *Store) Attendance() *Attendance       { return &Attendance{s} }
func (s *Store) Reports() *Reports             { return &Reports{s: s} }

// id and now must be called with mu held. now is strictly increasing so
// orderings by timestamp are deterministic.
func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

func (s *Store) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// projection fills the derived fields of a stored registration.
func (s *Store) projection(r entities.Registration) entities.Registration {
	r.Status = domain.StatusRegistered
	r.AttendedAt = time.Time{}
	if a, ok := s.attendance[r.ID]; ok {
		r.Status = domain.StatusAttended
		r.AttendedAt = a.AttendedAt
	}
	if e, ok := s.events[r.EventID]; ok {
		r.EventTitle = e.Title
		r.EventDate = e.Date
		r.EventLocation = e.Location
	}
	return r
}

func (s *Store) registrationsWhere(keep func(entities.Registration) bool) []entities.Registration {
	out := []entities.Registration{}
	for _, r := range s.registrations {
		if keep(r) {
			out = append(out, s.projection(r))
		}
	}
	return out
}

func (s *Store) countRegistrations(eventID uint) int {
	n := 0
	for _, r := range s.registrations {
		if r.EventID == eventID {
			n++
		}
	}
	return n
}

func byRegisteredAt(rs []entities.Registration) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].RegisteredAt.Equal(rs[j].RegisteredAt) {
			return rs[i].ID < rs[j].ID
		}
		return rs[i].RegisteredAt.Before(rs[j].RegisteredAt)
	})
}

func ownedBy(ownerID uint, e entities.Event) bool {
	return ownerID == 0 || e.OwnerID == ownerID
}

func lower(s string) string {
	return strings.ToLower(s)
}
