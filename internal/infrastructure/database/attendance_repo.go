package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

var _ output.AttendanceRepository = (*AttendanceRepository)(nil)

type AttendanceRepository struct {
	db DB
}

func NewAttendanceRepository(db DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Mark inserts the attendance row in a single statement. A concurrent
// duplicate waits on the unique constraint and then inserts nothing.
func (r *AttendanceRepository) Mark(ctx context.Context, eventID, registrationID uint) (*entities.Attendance, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO attendance (registration_id, event_id)
		SELECT r.id, r.event_id FROM registrations r
		WHERE r.id = $1 AND r.event_id = $2
		ON CONFLICT (registration_id) DO NOTHING
		RETURNING id, registration_id, event_id, attended_at`,
		int64(registrationID), int64(eventID))
	a, err := scanAttendance(row)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("mark attendance: %w", err)
	}
	return nil, r.explainNoMark(ctx, `id = $1 AND event_id = $2`, int64(registrationID), int64(eventID))
}

func (r *AttendanceRepository) MarkByEmail(ctx context.Context, eventID uint, email string) (*entities.Attendance, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO attendance (registration_id, event_id)
		SELECT r.id, r.event_id FROM registrations r
		WHERE r.event_id = $1 AND r.email = $2
		ON CONFLICT (registration_id) DO NOTHING
		RETURNING id, registration_id, event_id, attended_at`,
		int64(eventID), email)
	a, err := scanAttendance(row)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("mark attendance by email: %w", err)
	}
	return nil, r.explainNoMark(ctx, `event_id = $1 AND email = $2`, int64(eventID), email)
}

// explainNoMark tells an existing mark apart from a missing registration
// after an insert that returned nothing.
func (r *AttendanceRepository) explainNoMark(ctx context.Context, where string, args ...any) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM registrations WHERE `+where+`)`, args...).Scan(&exists); err != nil {
		return fmt.Errorf("check registration: %w", err)
	}
	if exists {
		return domain.ErrAlreadyCheckedIn
	}
	return domain.ErrNotRegistered
}

func (r *AttendanceRepository) Set(ctx context.Context, registrationID uint, attended bool) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var eventID int64
		err := scanOne(tx.QueryRow(ctx, `SELECT event_id FROM registrations WHERE id = $1 FOR UPDATE`, int64(registrationID)),
			domain.ErrRegistrationNotFound, &eventID)
		if err != nil {
			return err
		}
		if attended {
			_, err = tx.Exec(ctx, `
				INSERT INTO attendance (registration_id, event_id) VALUES ($1, $2)
				ON CONFLICT (registration_id) DO NOTHING`, int64(registrationID), eventID)
		} else {
			_, err = tx.Exec(ctx, `DELETE FROM attendance WHERE registration_id = $1`, int64(registrationID))
		}
		return err
	})
	if err != nil && !errors.Is(err, domain.ErrRegistrationNotFound) {
		return fmt.Errorf("set attendance: %w", err)
	}
	return err
}

func (r *AttendanceRepository) FindByEventID(ctx context.Context, eventID uint) ([]entities.AttendanceEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.name, r.email, r.department, a.attended_at
		FROM attendance a
		JOIN registrations r ON r.id = a.registration_id
		WHERE a.event_id = $1
		ORDER BY a.attended_at, a.id`, int64(eventID))
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()
	out := []entities.AttendanceEntry{}
	for rows.Next() {
		var (
			e          entities.AttendanceEntry
			id         int64
			attendedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &e.Name, &e.Email, &e.Department, &attendedAt); err != nil {
			return nil, fmt.Errorf("list attendance: %w", err)
		}
		e.RegistrationID = uint(id)
		e.AttendedAt = pgtypeTimestamptzToTime(attendedAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return out, nil
}

func (r *AttendanceRepository) CountByEventID(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM attendance WHERE event_id = $1`, int64(eventID)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return count, nil
}

func scanAttendance(row pgx.Row) (*entities.Attendance, error) {
	var (
		id, registrationID, eventID int64
		attendedAt                  pgtype.Timestamptz
	)
	if err := row.Scan(&id, &registrationID, &eventID, &attendedAt); err != nil {
		return nil, err
	}
	return &entities.Attendance{
		ID:             uint(id),
		RegistrationID: uint(registrationID),
		EventID:        uint(eventID),
		AttendedAt:     pgtypeTimestamptzToTime(attendedAt),
	}, nil
}
