package application

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

const reminderSendTimeout = 30 * time.Second

// ReminderService sends fire-and-forget reminders to attendees who have not
// checked in yet. Nothing about a reminder is persisted.
type ReminderService struct {
	eventRepo        output.EventRepository
	registrationRepo output.RegistrationRepository
	notifier         output.Notifier
	policy           Policy
	delay            time.Duration
	log              *zap.Logger
	wg               sync.WaitGroup
}

func NewReminderService(
	eventRepo output.EventRepository,
	registrationRepo output.RegistrationRepository,
	notifier output.Notifier,
	policy Policy,
	delay time.Duration,
	log *zap.Logger,
) *ReminderService {
	return &ReminderService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		notifier:         notifier,
		policy:           policy,
		delay:            delay,
		log:              log,
	}
}

// SendReminders queues reminders for the event and returns how many
// attendees they target. Delivery happens in the background.
func (s *ReminderService) SendReminders(ctx context.Context, requester *entities.Identity, eventID uint) (int, error) {
	if requester == nil {
		return 0, domain.ErrUnauthorized
	}
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if err := s.policy.Require(requester, CapManageEvent, event); err != nil {
		return 0, err
	}
	registrations, err := s.registrationRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	pending := make([]entities.Registration, 0, len(registrations))
	for _, r := range registrations {
		if !r.Attended() {
			pending = append(pending, r)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	s.wg.Add(1)
	go s.deliver(*event, pending)
	return len(pending), nil
}

func (s *ReminderService) deliver(event entities.Event, recipients []entities.Registration) {
	defer s.wg.Done()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	ctx, cancel := context.WithTimeout(context.Background(), reminderSendTimeout)
	defer cancel()
	if err := s.notifier.NotifyReminder(ctx, &event, recipients); err != nil {
		s.log.Warn("reminder delivery failed",
			zap.Uint("event_id", event.ID),
			zap.Int("recipients", len(recipients)),
			zap.Error(err))
		return
	}
	s.log.Info("reminders sent",
		zap.Uint("event_id", event.ID),
		zap.Int("recipients", len(recipients)))
}

// Wait blocks until queued reminders have been handed to the notifier.
func (s *ReminderService) Wait() {
	s.wg.Wait()
}
