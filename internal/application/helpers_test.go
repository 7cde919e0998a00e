package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventledger/internal/domain/entities"
	"eventledger/internal/infrastructure/security"
	"eventledger/internal/testutil/memstore"
)

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) {
	if p == "" {
		return "", errors.New("empty")
	}
	return "plain:" + p, nil
}

func (plainHasher) Compare(hash, p string) bool { return hash == "plain:"+p }

// stubInsights answers from a canned reply or error, optionally after a delay.
type stubInsights struct {
	mu    sync.Mutex
	reply string
	err   error
	delay time.Duration
	seen  []entities.InsightRequest
}

func (s *stubInsights) Generate(ctx context.Context, req entities.InsightRequest) (json.RawMessage, error) {
	s.mu.Lock()
	s.seen = append(s.seen, req)
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.reply), nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]entities.Registration
	err   error
}

func (n *recordingNotifier) NotifyReminder(_ context.Context, _ *entities.Event, recipients []entities.Registration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, recipients)
	return n.err
}

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memstore.Store

	identity      *IdentityService
	events        *EventService
	registrations *RegistrationService
	attendance    *AttendanceService
	reports       *ReportService
	reminders     *ReminderService

	insights *stubInsights
	notifier *recordingNotifier
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	enforceCapacity bool
	insightTimeout  time.Duration
}

func withoutCapacity() fixtureOption {
	return func(c *fixtureConfig) { c.enforceCapacity = false }
}

func withInsightTimeout(d time.Duration) fixtureOption {
	return func(c *fixtureConfig) { c.insightTimeout = d }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	cfg := fixtureConfig{enforceCapacity: true, insightTimeout: time.Second}
	for _, o := range opts {
		o(&cfg)
	}

	store := memstore.New()
	policy := Policy{}
	insights := &stubInsights{}
	notifier := &recordingNotifier{}

	return &fixture{
		t:             t,
		ctx:           context.Background(),
		store:         store,
		identity:      NewIdentityService(store.Users(), plainHasher{}, security.NewJWTIssuer("test-secret-0123456789", time.Hour)),
		events:        NewEventService(store.Events(), policy),
		registrations: NewRegistrationService(store.Registrations(), store.Events(), store.Users(), policy, cfg.enforceCapacity),
		attendance:    NewAttendanceService(store.Attendance(), store.Registrations(), store.Events(), policy, "https://events.example.com/"),
		reports:       NewReportService(store.Reports(), store.Events(), insights, cfg.insightTimeout, policy, zap.NewNop()),
		reminders:     NewReminderService(store.Events(), store.Registrations(), notifier, policy, 0, zap.NewNop()),
		insights:      insights,
		notifier:      notifier,
	}
}

// admin creates an admin account directly in the store.
func (f *fixture) admin(name string) *entities.Identity {
	f.t.Helper()
	u := &entities.User{
		Name:         name,
		Email:        strings.ToLower(name) + "@admins.example.com",
		PasswordHash: "plain:secret",
		Role:         "admin",
	}
	require.NoError(f.t, f.store.Users().Create(f.ctx, u))
	id := u.Identity()
	return &id
}

func (f *fixture) attendee(name, department string) *entities.Identity {
	f.t.Helper()
	session, err := f.identity.Signup(f.ctx, name, strings.ToLower(name)+"@example.com", "secret", department)
	require.NoError(f.t, err)
	id := session.User.Identity()
	return &id
}

func (f *fixture) event(owner *entities.Identity, title string, capacity int) *entities.Event {
	f.t.Helper()
	e, err := f.events.CreateEvent(f.ctx, owner, EventInput{
		Title:    title,
		Date:     "2026-06-01T09:00:00Z",
		Location: "Main hall",
		Capacity: capacity,
		Category: "Workshop",
	})
	require.NoError(f.t, err)
	return e
}

func (f *fixture) register(eventID uint, name, email, department string) *entities.Registration {
	f.t.Helper()
	r, err := f.registrations.Register(f.ctx, eventID, entities.Attendee{Name: name, Email: email, Department: department})
	require.NoError(f.t, err)
	return r
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
