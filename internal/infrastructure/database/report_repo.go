package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

var _ output.ReportRepository = (*ReportRepository)(nil)

// ownerFilter keeps every event when $1 is 0.
const ownerFilter = `($1::bigint = 0 OR e.owner_id = $1::bigint)`

// ReportRepository recomputes every aggregate from the ledger tables.
type ReportRepository struct {
	db DB
	q  querier // db, or the transaction of a snapshot
}

func NewReportRepository(db DB) *ReportRepository {
	return &ReportRepository{db: db, q: db}
}

// Snapshot runs fn inside a read-only repeatable-read transaction.
func (r *ReportRepository) Snapshot(ctx context.Context, fn func(output.ReportRepository) error) error {
	return pgx.BeginTxFunc(ctx, r.db, snapshotTx, func(tx pgx.Tx) error {
		return fn(&ReportRepository{db: r.db, q: tx})
	})
}

func (r *ReportRepository) Totals(ctx context.Context, ownerID uint) (entities.Totals, error) {
	var events, registrations, attendance, attendees int64
	err := r.q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM events e WHERE `+ownerFilter+`),
			(SELECT COUNT(*) FROM registrations r JOIN events e ON e.id = r.event_id WHERE `+ownerFilter+`),
			(SELECT COUNT(*) FROM attendance a JOIN events e ON e.id = a.event_id WHERE `+ownerFilter+`),
			(SELECT COUNT(DISTINCT r.email) FROM registrations r JOIN events e ON e.id = r.event_id WHERE `+ownerFilter+`)`,
		int64(ownerID),
	).Scan(&events, &registrations, &attendance, &attendees)
	if err != nil {
		return entities.Totals{}, fmt.Errorf("totals: %w", err)
	}
	return entities.Totals{
		Events:        int(events),
		Registrations: int(registrations),
		Attendance:    int(attendance),
		Attendees:     int(attendees),
	}, nil
}

func (r *ReportRepository) Departments(ctx context.Context, ownerID uint) ([]entities.DepartmentCount, error) {
	return r.departments(ctx, `
		SELECT r.department, COUNT(*) AS count
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE `+ownerFilter+`
		GROUP BY r.department
		ORDER BY count DESC, r.department`, int64(ownerID))
}

func (r *ReportRepository) EventDepartments(ctx context.Context, eventID uint) ([]entities.DepartmentCount, error) {
	return r.departments(ctx, `
		SELECT r.department, COUNT(*) AS count
		FROM registrations r
		WHERE r.event_id = $1
		GROUP BY r.department
		ORDER BY count DESC, r.department`, int64(eventID))
}

func (r *ReportRepository) departments(ctx context.Context, sql string, arg int64) ([]entities.DepartmentCount, error) {
	rows, err := r.q.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("departments: %w", err)
	}
	defer rows.Close()
	out := []entities.DepartmentCount{}
	for rows.Next() {
		var (
			d     entities.DepartmentCount
			count int64
		)
		if err := rows.Scan(&d.Department, &count); err != nil {
			return nil, fmt.Errorf("departments: %w", err)
		}
		d.Count = int(count)
		out = append(out, d)
	}
	return out, rows.Err()
}

// EventBreakdown counts registrations and marks per event, oldest event first.
func (r *ReportRepository) EventBreakdown(ctx context.Context, ownerID uint) ([]entities.EventCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT e.id, e.title, e.event_date, COUNT(r.id), COUNT(a.id)
		FROM events e
		LEFT JOIN registrations r ON r.event_id = e.id
		LEFT JOIN attendance a ON a.registration_id = r.id
		WHERE `+ownerFilter+`
		GROUP BY e.id
		ORDER BY e.event_date, e.id`, int64(ownerID))
	if err != nil {
		return nil, fmt.Errorf("event breakdown: %w", err)
	}
	defer rows.Close()
	out := []entities.EventCount{}
	for rows.Next() {
		var (
			c                          entities.EventCount
			id, registrations, attends int64
		)
		if err := rows.Scan(&id, &c.Title, &c.Date, &registrations, &attends); err != nil {
			return nil, fmt.Errorf("event breakdown: %w", err)
		}
		c.EventID = uint(id)
		c.Registrations = int(registrations)
		c.Attendance = int(attends)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ReportRepository) Categories(ctx context.Context, ownerID uint) ([]entities.CategoryCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT e.category, COUNT(*) AS count
		FROM events e
		WHERE `+ownerFilter+`
		GROUP BY e.category
		ORDER BY count DESC, e.category`, int64(ownerID))
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	defer rows.Close()
	out := []entities.CategoryCount{}
	for rows.Next() {
		var (
			c     entities.CategoryCount
			count int64
		)
		if err := rows.Scan(&c.Category, &count); err != nil {
			return nil, fmt.Errorf("categories: %w", err)
		}
		c.Count = int(count)
		out = append(out, c)
	}
	return out, rows.Err()
}
