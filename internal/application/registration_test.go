package application

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ev := f.event(f.admin("Root"), "Meetup", 10)

	reg, err := f.registrations.Register(f.ctx, ev.ID, entities.Attendee{
		Name:       " Ada ",
		Email:      "Ada@Example.COM",
		Department: "R&D",
	})
	require.NoError(t, err)
	assert.NotZero(t, reg.ID)
	assert.Equal(t, "Ada", reg.Name)
	assert.Equal(t, "ada@example.com", reg.Email)
	assert.Equal(t, domain.StatusRegistered, reg.Status)
	assert.Equal(t, uint(0), reg.UserID)
}

func TestRegister_Rejected(t *testing.T) {
	f := newFixture(t)
	ev := f.event(f.admin("Root"), "Meetup", 10)

	_, err := f.registrations.Register(f.ctx, ev.ID, entities.Attendee{Email: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.registrations.Register(f.ctx, ev.ID, entities.Attendee{Name: "Ada", Email: "nope"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.registrations.Register(f.ctx, 0, entities.Attendee{Name: "Ada", Email: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.registrations.Register(f.ctx, 999, entities.Attendee{Name: "Ada", Email: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestRegister_DuplicateIgnoresCase(t *testing.T) {
	f := newFixture(t)
	ev := f.event(f.admin("Root"), "Meetup", 10)
	f.register(ev.ID, "Ada", "ada@example.com", "")

	_, err := f.registrations.Register(f.ctx, ev.ID, entities.Attendee{Name: "Ada L.", Email: "ADA@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateRegistration)

	regs, err := f.store.Registrations().FindByEventID(f.ctx, ev.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestRegister_SameEmailOtherEvent(t *testing.T) {
	f := newFixture(t)
	admin := f.admin("Root")
	a := f.event(admin, "A", 10)
	b := f.event(admin, "B", 10)

	f.register(a.ID, "Ada", "ada@example.com", "")
	f.register(b.ID, "Ada", "ada@example.com", "")
}

// Both registration paths write to one ledger keyed by email.
func TestRegisterUser_SharesLedgerWithAnonymousPath(t *testing.T) {
	f := newFixture(t)
	ev := f.event(f.admin("Root"), "Meetup", 10)
	ada := f.attendee("Ada", "R&D")
	f.register(ev.ID, "Ada", "ADA@example.com", "")

	_, err := f.registrations.RegisterUser(f.ctx, ada, ev.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateRegistration)

	other := f.event(f.admin("Other"), "Other", 10)
	reg, err := f.registrations.RegisterUser(f.ctx, ada, other.ID)
	require.NoError(t, err)
	assert.Equal(t, ada.UserID, reg.UserID)
	assert.Equal(t, "ada@example.com", reg.Email)
	assert.Equal(t, "R&D", reg.Department)

	_, err = f.registrations.Register(f.ctx, other.ID, entities.Attendee{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateRegistration)
}

func TestRegisterUser_RequiresLiveAccount(t *testing.T) {
	f := newFixture(t)
	ev := f.event(f.admin("Root"), "Meetup", 10)

	_, err := f.registrations.RegisterUser(f.ctx, nil, ev.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.registrations.RegisterUser(f.ctx, &entities.Identity{UserID: 404}, ev.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_Capacity(t *testing.T) {
	f := newFixture(t)
	ev := f.event(f.admin("Root"), "Tiny", 2)
	f.register(ev.ID, "A", "a@example.com", "")
	f.register(ev.ID, "B", "b@example.com", "")

	_, err := f.registrations.Register(f.ctx, ev.ID, entities.Attendee{Name: "C", Email: "c@example.com"})
	assert.ErrorIs(t, err, domain.ErrEventFull)

	// A duplicate on a full event is reported as a duplicate.
	_, err = f.registrations.Register(f.ctx, ev.ID, entities.Attendee{Name: "A", Email: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateRegistration)
}

func TestRegister_CapacityNotEnforced(t *testing.T) {
	f := newFixture(t, withoutCapacity())
	ev := f.event(f.admin("Root"), "Tiny", 1)
	f.register(ev.ID, "A", "a@example.com", "")
	f.register(ev.ID, "B", "b@example.com", "")

	got, err := f.events.GetEvent(f.ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RegistrationCount)
	assert.True(t, got.IsFull())
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	f := newFixture(t)
	ev := f.event(f.admin("Root"), "Meetup", 100)

	const workers = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := "ada@example.com"
			if i%2 == 0 {
				email = "ADA@example.com"
			}
			_, err := f.registrations.Register(f.ctx, ev.ID, entities.Attendee{Name: "Ada", Email: email})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, domain.ErrDuplicateRegistration):
				dupes++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, dupes)
}

func TestRegister_ConcurrentCapacity(t *testing.T) {
	f := newFixture(t)
	ev := f.event(f.admin("Root"), "Meetup", 10)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		full int
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.registrations.Register(f.ctx, ev.ID, entities.Attendee{
				Name:  fmt.Sprintf("P%d", i),
				Email: fmt.Sprintf("p%d@example.com", i),
			})
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrEventFull)
				mu.Lock()
				full++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	n, err := f.store.Registrations().CountByEventID(f.ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
	assert.Equal(t, 20, full)
}

func TestListRegistrations(t *testing.T) {
	f := newFixture(t)
	owner := f.admin("Owner")
	stranger := f.admin("Stranger")
	ev := f.event(owner, "Meetup", 10)
	ada := f.attendee("Ada", "R&D")
	_, err := f.registrations.RegisterUser(f.ctx, ada, ev.ID)
	require.NoError(t, err)
	f.register(ev.ID, "Grace", "grace@example.com", "Ops")

	regs, err := f.registrations.ListRegistrationsForEvent(f.ctx, owner, ev.ID)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, "Ada", regs[0].Name)

	_, err = f.registrations.ListRegistrationsForEvent(f.ctx, stranger, ev.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	mine, err := f.registrations.ListRegistrationsForUser(f.ctx, ada)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Meetup", mine[0].EventTitle)

	participants, err := f.registrations.ListParticipants(f.ctx, owner)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, "Grace", participants[0].Name, "newest first")

	none, err := f.registrations.ListParticipants(f.ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.registrations.ListParticipants(f.ctx, ada)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
