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

var _ output.EventRepository = (*EventRepository)(nil)

// The registration count is always an aggregate over the ledger, never a
// stored counter.
const selectEvents = `
	SELECT e.id, e.owner_id, e.title, e.description, e.event_date, e.location,
	       e.capacity, e.category, e.created_at,
	       (SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id) AS registration_count
	FROM events e`

const selectRegistrations = `
	SELECT r.id, r.event_id, r.user_id, r.name, r.email, r.department,
	       r.registered_at, a.attended_at
	FROM registrations r
	LEFT JOIN attendance a ON a.registration_id = r.id`

type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	var (
		id        int64
		createdAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		INSERT INTO events (owner_id, title, description, event_date, location, capacity, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		uintToPgtypeInt8(event.OwnerID), event.Title, event.Description, event.Date,
		event.Location, int32(event.Capacity), event.Category,
	).Scan(&id, &createdAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	event.ID = uint(id)
	event.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	return nil
}

// FindByID loads the event row only. It is the lookup behind authorization
// checks.
func (r *EventRepository) FindByID(ctx context.Context, id uint) (*entities.Event, error) {
	return findEvent(ctx, r.db, id)
}

// FindWithParticipants reads the event and its ledger in one snapshot, so the
// registration count always equals the number of participants returned.
func (r *EventRepository) FindWithParticipants(ctx context.Context, id uint) (*entities.Event, error) {
	var event *entities.Event
	err := pgx.BeginTxFunc(ctx, r.db, snapshotTx, func(tx pgx.Tx) error {
		e, err := findEvent(ctx, tx, id)
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, selectRegistrations+`
			WHERE r.event_id = $1
			ORDER BY r.registered_at, r.id`, int64(id))
		if err != nil {
			return fmt.Errorf("get participants: %w", err)
		}
		participants, err := collectRegistrations(rows)
		if err != nil {
			return fmt.Errorf("get participants: %w", err)
		}
		e.Participants = participants
		e.RegistrationCount = len(participants)
		event = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func findEvent(ctx context.Context, q querier, id uint) (*entities.Event, error) {
	rows, err := q.Query(ctx, selectEvents+` WHERE e.id = $1`, int64(id))
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	if len(events) == 0 {
		return nil, domain.ErrEventNotFound
	}
	return &events[0], nil
}

func (r *EventRepository) List(ctx context.Context) ([]entities.Event, error) {
	rows, err := r.db.Query(ctx, selectEvents+` ORDER BY e.event_date, e.id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID uint) ([]entities.Event, error) {
	rows, err := r.db.Query(ctx, selectEvents+` WHERE e.owner_id = $1 ORDER BY e.event_date, e.id`, int64(ownerID))
	if err != nil {
		return nil, fmt.Errorf("list events by owner: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("list events by owner: %w", err)
	}
	return events, nil
}

// Delete relies on ON DELETE CASCADE: the event, its registrations and its
// attendance marks go away in the same statement.
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func collectEvents(rows pgx.Rows) ([]entities.Event, error) {
	defer rows.Close()
	out := []entities.Event{}
	for rows.Next() {
		var e eventRow
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.Date, &e.Location,
			&e.Capacity, &e.Category, &e.CreatedAt, &e.RegistrationCount); err != nil {
			return nil, err
		}
		out = append(out, e.toDomain())
	}
	return out, rows.Err()
}

func collectRegistrations(rows pgx.Rows) ([]entities.Registration, error) {
	defer rows.Close()
	out := []entities.Registration{}
	for rows.Next() {
		var r registrationRow
		if err := rows.Scan(&r.ID, &r.EventID, &r.UserID, &r.Name, &r.Email, &r.Department,
			&r.RegisteredAt, &r.AttendedAt); err != nil {
			return nil, err
		}
		out = append(out, r.toDomain())
	}
	return out, rows.Err()
}

// scanOne maps pgx.ErrNoRows to notFound.
func scanOne(row pgx.Row, notFound error, dest ...any) error {
	err := row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return err
}
