package database

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

type RepositorySuite struct {
	suite.Suite

	ctx       context.Context
	container testcontainers.Container
	pool      *pgxpool.Pool

	users         *UserRepository
	events        *EventRepository
	registrations *RegistrationRepository
	attendance    *AttendanceRepository
	reports       *ReportRepository
}

func TestRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres container tests are skipped in short mode")
	}
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	c, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err)
	s.container = c

	host, err := c.Host(s.ctx)
	s.Require().NoError(err)
	port, err := c.MappedPort(s.ctx, "5432")
	s.Require().NoError(err)
	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	log := zap.NewNop()
	s.Require().NoError(RunMigrations(dsn, log))
	// A second run is a no-op.
	s.Require().NoError(RunMigrations(dsn, log))

	s.pool, err = NewPool(s.ctx, dsn, log)
	s.Require().NoError(err)

	s.users = NewUserRepository(s.pool)
	s.events = NewEventRepository(s.pool)
	s.registrations = NewRegistrationRepository(s.pool)
	s.attendance = NewAttendanceRepository(s.pool)
	s.reports = NewReportRepository(s.pool)
}

func (s *RepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *RepositorySuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE attendance, registrations, events, users RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func (s *RepositorySuite) user(name, role string) *entities.User {
	u := &entities.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		Role:         role,
		Department:   "Ops",
	}
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *RepositorySuite) event(owner uint, title string, capacity int) *entities.Event {
	e := &entities.Event{
		OwnerID:  owner,
		Title:    title,
		Date:     "2026-06-01T09:00:00Z",
		Location: "Hall",
		Capacity: capacity,
		Category: "Talk",
	}
	s.Require().NoError(s.events.Create(s.ctx, e))
	return e
}

func (s *RepositorySuite) register(eventID uint, email, department string) *entities.Registration {
	r := &entities.Registration{
		EventID:    eventID,
		Name:       email,
		Email:      email,
		Department: department,
		Status:     domain.StatusRegistered,
	}
	s.Require().NoError(s.registrations.Create(s.ctx, r, true))
	return r
}

func (s *RepositorySuite) TestUserEmailIsCaseInsensitive() {
	s.user("ada", domain.RoleAdmin)

	err := s.users.Create(s.ctx, &entities.User{Name: "Ada", Email: "ADA@example.com", PasswordHash: "h", Role: domain.RoleAttendee})
	s.ErrorIs(err, domain.ErrDuplicateEmail)

	found, err := s.users.FindByEmail(s.ctx, "Ada@Example.com")
	s.Require().NoError(err)
	s.Equal("ada", found.Name)

	_, err = s.users.FindByID(s.ctx, 999)
	s.ErrorIs(err, domain.ErrUserNotFound)

	count, err := s.users.CountByRole(s.ctx, domain.RoleAdmin)
	s.Require().NoError(err)
	s.EqualValues(1, count)
}

func (s *RepositorySuite) TestEventReadsCountRegistrations() {
	owner := s.user("owner", domain.RoleAdmin)
	e := s.event(owner.ID, "Talk", 2)
	s.register(e.ID, "a@example.com", "Sales")
	s.register(e.ID, "b@example.com", "Sales")

	got, err := s.events.FindWithParticipants(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(2, got.RegistrationCount)
	s.True(got.IsFull())
	s.Require().Len(got.Participants, 2)
	s.Equal(domain.StatusRegistered, got.Participants[0].Status)

	mine, err := s.events.ListByOwner(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Len(mine, 1)

	light, err := s.events.FindByID(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(2, light.RegistrationCount)
	s.Nil(light.Participants)

	_, err = s.events.FindByID(s.ctx, 999)
	s.ErrorIs(err, domain.ErrEventNotFound)
	_, err = s.events.FindWithParticipants(s.ctx, 999)
	s.ErrorIs(err, domain.ErrEventNotFound)
}

func (s *RepositorySuite) TestDuplicateBeforeCapacity() {
	owner := s.user("owner", domain.RoleAdmin)
	e := s.event(owner.ID, "Small", 1)
	s.register(e.ID, "a@example.com", "")

	err := s.registrations.Create(s.ctx, &entities.Registration{EventID: e.ID, Name: "A", Email: "a@example.com"}, true)
	s.ErrorIs(err, domain.ErrDuplicateRegistration)

	err = s.registrations.Create(s.ctx, &entities.Registration{EventID: e.ID, Name: "B", Email: "b@example.com"}, true)
	s.ErrorIs(err, domain.ErrEventFull)

	// Without enforcement the capacity is advisory.
	err = s.registrations.Create(s.ctx, &entities.Registration{EventID: e.ID, Name: "B", Email: "b@example.com"}, false)
	s.NoError(err)

	err = s.registrations.Create(s.ctx, &entities.Registration{EventID: 999, Name: "C", Email: "c@example.com"}, true)
	s.ErrorIs(err, domain.ErrEventNotFound)
}

func (s *RepositorySuite) TestConcurrentRegistrationsRespectCapacity() {
	owner := s.user("owner", domain.RoleAdmin)
	e := s.event(owner.ID, "Popular", 5)

	const workers = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs = map[error]int{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.registrations.Create(s.ctx, &entities.Registration{
				EventID: e.ID,
				Name:    "guest",
				Email:   "guest" + strconv.Itoa(i) + "@example.com",
			}, true)
			mu.Lock()
			errs[err]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	s.Equal(5, errs[nil])
	s.Equal(workers-5, errs[domain.ErrEventFull])
	count, err := s.registrations.CountByEventID(s.ctx, e.ID)
	s.Require().NoError(err)
	s.EqualValues(5, count)
}

func (s *RepositorySuite) TestConcurrentSameEmail() {
	owner := s.user("owner", domain.RoleAdmin)
	e := s.event(owner.ID, "Talk", 50)

	const workers = 10
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.registrations.Create(s.ctx, &entities.Registration{EventID: e.ID, Name: "Ada", Email: "ada@example.com"}, true)
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
				return
			}
			s.ErrorIs(err, domain.ErrDuplicateRegistration)
		}()
	}
	wg.Wait()
	s.Equal(1, ok)
}

func (s *RepositorySuite) TestMarkIsAtMostOnce() {
	owner := s.user("owner", domain.RoleAdmin)
	e := s.event(owner.ID, "Talk", 10)
	other := s.event(owner.ID, "Other", 10)
	r := s.register(e.ID, "ada@example.com", "Ops")

	_, err := s.attendance.Mark(s.ctx, other.ID, r.ID)
	s.ErrorIs(err, domain.ErrNotRegistered)

	const workers = 8
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.attendance.MarkByEmail(s.ctx, e.ID, "ada@example.com")
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
				return
			}
			s.ErrorIs(err, domain.ErrAlreadyCheckedIn)
		}()
	}
	wg.Wait()
	s.Equal(1, ok)

	count, err := s.attendance.CountByEventID(s.ctx, e.ID)
	s.Require().NoError(err)
	s.EqualValues(1, count)

	got, err := s.registrations.FindByID(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusAttended, got.Status)

	s.Require().NoError(s.attendance.Set(s.ctx, r.ID, false))
	s.Require().NoError(s.attendance.Set(s.ctx, r.ID, false))
	got, err = s.registrations.FindByID(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusRegistered, got.Status)

	s.ErrorIs(s.attendance.Set(s.ctx, 999, true), domain.ErrRegistrationNotFound)
}

func (s *RepositorySuite) TestDeleteEventCascades() {
	owner := s.user("owner", domain.RoleAdmin)
	e := s.event(owner.ID, "Talk", 10)
	r := s.register(e.ID, "ada@example.com", "Ops")
	_, err := s.attendance.Mark(s.ctx, e.ID, r.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.events.Delete(s.ctx, e.ID))
	s.ErrorIs(s.events.Delete(s.ctx, e.ID), domain.ErrEventNotFound)

	_, err = s.registrations.FindByID(s.ctx, r.ID)
	s.ErrorIs(err, domain.ErrRegistrationNotFound)

	var marks int
	s.Require().NoError(s.pool.QueryRow(s.ctx, `SELECT COUNT(*) FROM attendance`).Scan(&marks))
	s.Zero(marks)
}

func (s *RepositorySuite) TestDeleteUserDetachesLedger() {
	owner := s.user("owner", domain.RoleAdmin)
	guest := s.user("guest", domain.RoleAttendee)
	e := s.event(owner.ID, "Talk", 10)
	s.Require().NoError(s.registrations.Create(s.ctx, &entities.Registration{
		EventID: e.ID, UserID: guest.ID, Name: guest.Name, Email: guest.Email,
	}, true))

	s.Require().NoError(s.users.Delete(s.ctx, owner.ID))
	s.Require().NoError(s.users.Delete(s.ctx, guest.ID))
	s.ErrorIs(s.users.Delete(s.ctx, guest.ID), domain.ErrUserNotFound)

	got, err := s.events.FindWithParticipants(s.ctx, e.ID)
	s.Require().NoError(err)
	s.False(got.HasOwner())
	s.Require().Len(got.Participants, 1)
	s.Zero(got.Participants[0].UserID)
}

func (s *RepositorySuite) TestReports() {
	owner := s.user("owner", domain.RoleAdmin)
	rival := s.user("rival", domain.RoleAdmin)
	a := s.event(owner.ID, "A", 10)
	b := s.event(owner.ID, "B", 10)
	s.event(rival.ID, "C", 10)

	r1 := s.register(a.ID, "x@example.com", "Sales")
	s.register(a.ID, "y@example.com", "Sales")
	s.register(b.ID, "x@example.com", "Ops")
	_, err := s.attendance.Mark(s.ctx, a.ID, r1.ID)
	s.Require().NoError(err)

	totals, err := s.reports.Totals(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Equal(entities.Totals{Events: 2, Registrations: 3, Attendance: 1, Attendees: 2}, totals)

	all, err := s.reports.Totals(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(3, all.Events)

	departments, err := s.reports.Departments(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Require().NotEmpty(departments)
	s.Equal(entities.DepartmentCount{Department: "Sales", Count: 2}, departments[0])

	breakdown, err := s.reports.EventBreakdown(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Len(breakdown, 2)

	eventDepartments, err := s.reports.EventDepartments(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal([]entities.DepartmentCount{{Department: "Sales", Count: 2}}, eventDepartments)
}

func (s *RepositorySuite) TestEventDetailIsOneSnapshot() {
	owner := s.user("owner", domain.RoleAdmin)
	e := s.event(owner.ID, "Busy", 1000)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = s.registrations.Create(s.ctx, &entities.Registration{
				EventID: e.ID, Name: "g", Email: "g" + strconv.Itoa(i) + "@example.com",
			}, true)
		}
	}()

	for {
		got, err := s.events.FindWithParticipants(s.ctx, e.ID)
		s.Require().NoError(err)
		s.Equal(len(got.Participants), got.RegistrationCount)
		select {
		case <-done:
			return
		default:
		}
	}
}

func (s *RepositorySuite) TestReportSnapshotIgnoresConcurrentWrites() {
	owner := s.user("owner", domain.RoleAdmin)
	e := s.event(owner.ID, "Talk", 10)
	s.register(e.ID, "a@example.com", "Sales")

	err := s.reports.Snapshot(s.ctx, func(repo output.ReportRepository) error {
		before, err := repo.Totals(s.ctx, owner.ID)
		s.Require().NoError(err)
		s.Equal(1, before.Registrations)

		s.register(e.ID, "b@example.com", "Sales")

		departments, err := repo.Departments(s.ctx, owner.ID)
		s.Require().NoError(err)
		s.Equal([]entities.DepartmentCount{{Department: "Sales", Count: 1}}, departments)
		return nil
	})
	s.Require().NoError(err)

	after, err := s.reports.Totals(s.ctx, owner.ID)
	s.Require().NoError(err)
	s.Equal(2, after.Registrations)
}
