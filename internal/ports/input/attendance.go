package input

import (
	"context"

	"eventledger/internal/domain/entities"
)

type AttendanceUseCase interface {
	CheckIn(ctx context.Context, requester *entities.Identity, eventID, registrationID uint) (*entities.Attendance, error)
	SelfCheckIn(ctx context.Context, eventID uint, email string) (*entities.Attendance, error)
	ToggleAttendance(ctx context.Context, requester *entities.Identity, registrationID uint, attended bool) error
	ListAttendance(ctx context.Context, requester *entities.Identity, eventID uint) ([]entities.AttendanceEntry, error)
	CheckInLink(ctx context.Context, requester *entities.Identity, eventID uint) (string, error)
}
