package entities

import "time"

// Attendee is the identifying data of a registration. Email is the ledger key.
type Attendee struct {
	Name       string
	Email      string
	Department string
}

// Registration is one row of an event's ledger.
type Registration struct {
	ID           uint
	EventID      uint
	UserID       uint // 0 for anonymous registrations
	Name         string
	Email        string
	Department   string
	Status       string
	RegisteredAt time.Time
	AttendedAt   time.Time // zero unless Status is attended

	// Event metadata, filled by listing projections.
	EventTitle    string
	EventDate     string
	EventLocation string
}

func (r *Registration) Attended() bool {
	return !r.AttendedAt.IsZero()
}

// Attendance is a check-in mark for a registration.
type Attendance struct {
	ID             uint
	RegistrationID uint
	EventID        uint
	AttendedAt     time.Time
}

// AttendanceEntry is a row of an event's check-in list.
type AttendanceEntry struct {
	RegistrationID uint
	Name           string
	Email          string
	Department     string
	AttendedAt     time.Time
}
