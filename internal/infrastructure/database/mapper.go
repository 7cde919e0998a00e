package database

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func pgtypeInt8ToUint(v pgtype.Int8) uint {
	if !v.Valid {
		return 0
	}
	return uint(v.Int64)
}

// uintToPgtypeInt8 maps the zero id to NULL.
func uintToPgtypeInt8(v uint) pgtype.Int8 {
	return pgtype.Int8{Int64: int64(v), Valid: v != 0}
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// registrationRow is the common projection of a registration and its mark.
type registrationRow struct {
	ID           int64
	EventID      int64
	UserID       pgtype.Int8
	Name         string
	Email        string
	Department   string
	RegisteredAt pgtype.Timestamptz
	AttendedAt   pgtype.Timestamptz
}

func (r registrationRow) toDomain() entities.Registration {
	reg := entities.Registration{
		ID:           uint(r.ID),
		EventID:      uint(r.EventID),
		UserID:       pgtypeInt8ToUint(r.UserID),
		Name:         r.Name,
		Email:        r.Email,
		Department:   r.Department,
		RegisteredAt: pgtypeTimestamptzToTime(r.RegisteredAt),
		AttendedAt:   pgtypeTimestamptzToTime(r.AttendedAt),
	}
	reg.Status = domain.StatusRegistered
	if reg.Attended() {
		reg.Status = domain.StatusAttended
	}
	return reg
}

type eventRow struct {
	ID                int64
	OwnerID           pgtype.Int8
	Title             string
	Description       string
	Date              string
	Location          string
	Capacity          int32
	Category          string
	CreatedAt         pgtype.Timestamptz
	RegistrationCount int64
}

func (e eventRow) toDomain() entities.Event {
	return entities.Event{
		ID:                uint(e.ID),
		OwnerID:           pgtypeInt8ToUint(e.OwnerID),
		Title:             e.Title,
		Description:       e.Description,
		Date:              e.Date,
		Location:          e.Location,
		Capacity:          int(e.Capacity),
		Category:          e.Category,
		CreatedAt:         pgtypeTimestamptzToTime(e.CreatedAt),
		RegistrationCount: int(e.RegistrationCount),
	}
}
