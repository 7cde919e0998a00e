// Package httpapi is the JSON-over-HTTP adapter of the ledger.
package httpapi

import (
	"context"

	"go.uber.org/zap"

	"eventledger/internal/ports/input"
	"eventledger/internal/ports/output"
)

// Pinger reports whether the store is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the HTTP API using use cases.
type Handler struct {
	identity      input.IdentityUseCase
	events        input.EventUseCase
	registrations input.RegistrationUseCase
	attendance    input.AttendanceUseCase
	reports       input.ReportUseCase
	reminders     input.ReminderUseCase

	tr     output.T
	health Pinger
	log    *zap.Logger
}

// Services groups the use cases the handler depends on.
type Services struct {
	Identity      input.IdentityUseCase
	Events        input.EventUseCase
	Registrations input.RegistrationUseCase
	Attendance    input.AttendanceUseCase
	Reports       input.ReportUseCase
	Reminders     input.ReminderUseCase
}

// NewHandler creates a Handler.
func NewHandler(svc Services, tr output.T, health Pinger, log *zap.Logger) *Handler {
	return &Handler{
		identity:      svc.Identity,
		events:        svc.Events,
		registrations: svc.Registrations,
		attendance:    svc.Attendance,
		reports:       svc.Reports,
		reminders:     svc.Reminders,
		tr:            tr,
		health:        health,
		log:           log,
	}
}
