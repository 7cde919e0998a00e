package output

import (
	"context"

	"eventledger/internal/domain/entities"
)

// AttendanceRepository is the attendance ledger.
type AttendanceRepository interface {
	// Mark atomically creates the attendance mark of a registration of eventID.
	// It returns domain.ErrNotRegistered when no such registration exists in
	// that event and domain.ErrAlreadyCheckedIn when a mark already exists.
	Mark(ctx context.Context, eventID, registrationID uint) (*entities.Attendance, error)
	// MarkByEmail resolves the attendee key within eventID and marks it, with
	// the same errors as Mark.
	MarkByEmail(ctx context.Context, eventID uint, email string) (*entities.Attendance, error)
	// Set forces the mark on or off. It returns domain.ErrRegistrationNotFound
	// when the registration does not exist.
	Set(ctx context.Context, registrationID uint, attended bool) error
	FindByEventID(ctx context.Context, eventID uint) ([]entities.AttendanceEntry, error)
	CountByEventID(ctx context.Context, eventID uint) (int64, error)
}
