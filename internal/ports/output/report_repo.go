package output

import (
	"context"

	"eventledger/internal/domain/entities"
)

// ReportRepository computes aggregates from the ledger tables. ownerID 0
// means all events.
type ReportRepository interface {
	Totals(ctx context.Context, ownerID uint) (entities.Totals, error)
	Departments(ctx context.Context, ownerID uint) ([]entities.DepartmentCount, error)
	EventBreakdown(ctx context.Context, ownerID uint) ([]entities.EventCount, error)
	Categories(ctx context.Context, ownerID uint) ([]entities.CategoryCount, error)
	EventDepartments(ctx context.Context, eventID uint) ([]entities.DepartmentCount, error)
	// Snapshot runs fn against a view in which every read sees the same
	// committed state.
	Snapshot(ctx context.Context, fn func(ReportRepository) error) error
}
