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

var _ output.RegistrationRepository = (*RegistrationRepository)(nil)

const selectRegistrationsWithEvent = `
	SELECT r.id, r.event_id, r.user_id, r.name, r.email, r.department,
	       r.registered_at, a.attended_at, e.title, e.event_date, e.location
	FROM registrations r
	JOIN events e ON e.id = r.event_id
	LEFT JOIN attendance a ON a.registration_id = r.id`

// RegistrationRepository implements output.RegistrationRepository using pgx.
type RegistrationRepository struct {
	db DB
}

func NewRegistrationRepository(db DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create locks the event row for the rest of the transaction, so concurrent
// registrations to one event are serialized: the duplicate and capacity checks
// see every committed insert, and the unique constraint backs them up.
func (r *RegistrationRepository) Create(ctx context.Context, reg *entities.Registration, enforceCapacity bool) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var capacity int32
		err := scanOne(tx.QueryRow(ctx, `SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, int64(reg.EventID)),
			domain.ErrEventNotFound, &capacity)
		if err != nil {
			return err
		}

		var exists bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM registrations
				WHERE event_id = $1 AND (email = $2 OR user_id = $3)
			)`, int64(reg.EventID), reg.Email, uintToPgtypeInt8(reg.UserID)).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateRegistration
		}

		if enforceCapacity {
			var count int64
			if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`,
				int64(reg.EventID)).Scan(&count); err != nil {
				return err
			}
			if count >= int64(capacity) {
				return domain.ErrEventFull
			}
		}

		var (
			id           int64
			registeredAt pgtype.Timestamptz
		)
		if err := tx.QueryRow(ctx, `
			INSERT INTO registrations (event_id, user_id, name, email, department)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, registered_at`,
			int64(reg.EventID), uintToPgtypeInt8(reg.UserID), reg.Name, reg.Email, reg.Department,
		).Scan(&id, &registeredAt); err != nil {
			return err
		}
		reg.ID = uint(id)
		reg.RegisteredAt = pgtypeTimestamptzToTime(registeredAt)
		reg.Status = domain.StatusRegistered
		return nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrDuplicateRegistration),
		errors.Is(err, domain.ErrEventFull):
		return err
	case pgErrorCode(err) == uniqueViolation:
		return domain.ErrDuplicateRegistration
	case pgErrorCode(err) == foreignKeyViolation:
		return domain.ErrEventNotFound
	default:
		return fmt.Errorf("create registration: %w", err)
	}
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id uint) (*entities.Registration, error) {
	return r.findOne(ctx, `r.id = $1`, int64(id))
}

func (r *RegistrationRepository) FindByEventIDAndEmail(ctx context.Context, eventID uint, email string) (*entities.Registration, error) {
	return r.findOne(ctx, `r.event_id = $1 AND r.email = $2`, int64(eventID), email)
}

func (r *RegistrationRepository) findOne(ctx context.Context, where string, args ...any) (*entities.Registration, error) {
	rows, err := r.db.Query(ctx, selectRegistrationsWithEvent+` WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	regs, err := collectRegistrationsWithEvent(rows)
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if len(regs) == 0 {
		return nil, domain.ErrRegistrationNotFound
	}
	return &regs[0], nil
}

func (r *RegistrationRepository) FindByEventID(ctx context.Context, eventID uint) ([]entities.Registration, error) {
	return r.findMany(ctx, `WHERE r.event_id = $1 ORDER BY r.registered_at, r.id`, int64(eventID))
}

func (r *RegistrationRepository) FindByUserID(ctx context.Context, userID uint) ([]entities.Registration, error) {
	return r.findMany(ctx, `WHERE r.user_id = $1 ORDER BY e.event_date, r.id`, int64(userID))
}

func (r *RegistrationRepository) FindByOwnerID(ctx context.Context, ownerID uint) ([]entities.Registration, error) {
	return r.findMany(ctx, `WHERE e.owner_id = $1 ORDER BY r.registered_at DESC, r.id DESC`, int64(ownerID))
}

func (r *RegistrationRepository) findMany(ctx context.Context, tail string, args ...any) ([]entities.Registration, error) {
	rows, err := r.db.Query(ctx, selectRegistrationsWithEvent+` `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	regs, err := collectRegistrationsWithEvent(rows)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

func (r *RegistrationRepository) CountByEventID(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, int64(eventID)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}

func collectRegistrationsWithEvent(rows pgx.Rows) ([]entities.Registration, error) {
	defer rows.Close()
	out := []entities.Registration{}
	for rows.Next() {
		var (
			row                   registrationRow
			title, date, location string
		)
		if err := rows.Scan(&row.ID, &row.EventID, &row.UserID, &row.Name, &row.Email, &row.Department,
			&row.RegisteredAt, &row.AttendedAt, &title, &date, &location); err != nil {
			return nil, err
		}
		reg := row.toDomain()
		reg.EventTitle = title
		reg.EventDate = date
		reg.EventLocation = location
		out = append(out, reg)
	}
	return out, rows.Err()
}
