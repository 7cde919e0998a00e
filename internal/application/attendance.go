package application

import (
	"context"
	"fmt"
	"strings"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

type AttendanceService struct {
	attendanceRepo   output.AttendanceRepository
	registrationRepo output.RegistrationRepository
	eventRepo        output.EventRepository
	policy           Policy
	publicBaseURL    string
}

func NewAttendanceService(
	attendanceRepo output.AttendanceRepository,
	registrationRepo output.RegistrationRepository,
	eventRepo output.EventRepository,
	policy Policy,
	publicBaseURL string,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo:   attendanceRepo,
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		policy:           policy,
		publicBaseURL:    strings.TrimRight(publicBaseURL, "/"),
	}
}

// CheckIn is the staff path: an organizer marks a registration at the door.
func (s *AttendanceService) CheckIn(ctx context.Context, requester *entities.Identity, eventID, registrationID uint) (*entities.Attendance, error) {
	if _, err := s.manageable(ctx, requester, eventID); err != nil {
		return nil, err
	}
	return s.attendanceRepo.Mark(ctx, eventID, registrationID)
}

// SelfCheckIn is the QR path: the attendee supplies the email they registered
// with. Only the target event is searched.
func (s *AttendanceService) SelfCheckIn(ctx context.Context, eventID uint, email string) (*entities.Attendance, error) {
	key, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.attendanceRepo.MarkByEmail(ctx, eventID, key)
}

// ToggleAttendance is the correction path. It sets the mark unconditionally
// and so never reports domain.ErrAlreadyCheckedIn.
func (s *AttendanceService) ToggleAttendance(ctx context.Context, requester *entities.Identity, registrationID uint, attended bool) error {
	if requester == nil {
		return domain.ErrUnauthorized
	}
	reg, err := s.registrationRepo.FindByID(ctx, registrationID)
	if err != nil {
		return err
	}
	if _, err := s.manageable(ctx, requester, reg.EventID); err != nil {
		return err
	}
	return s.attendanceRepo.Set(ctx, registrationID, attended)
}

func (s *AttendanceService) ListAttendance(ctx context.Context, requester *entities.Identity, eventID uint) ([]entities.AttendanceEntry, error) {
	if _, err := s.manageable(ctx, requester, eventID); err != nil {
		return nil, err
	}
	return s.attendanceRepo.FindByEventID(ctx, eventID)
}

// CheckInLink returns the self-service URL printed as a QR code at the venue.
func (s *AttendanceService) CheckInLink(ctx context.Context, requester *entities.Identity, eventID uint) (string, error) {
	if _, err := s.manageable(ctx, requester, eventID); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/checkin/%d", s.publicBaseURL, eventID), nil
}

func (s *AttendanceService) manageable(ctx context.Context, requester *entities.Identity, eventID uint) (*entities.Event, error) {
	if requester == nil {
		return nil, domain.ErrUnauthorized
	}
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Require(requester, CapManageEvent, event); err != nil {
		return nil, err
	}
	return event, nil
}
