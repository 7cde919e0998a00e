package memstore

import (
	"context"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
)

type Users struct{ s *Store }

func (u *Users) Create(_ context.Context, user *entities.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, existing := range u.s.users {
		if lower(existing.Email) == lower(user.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	user.ID = u.s.id()
	user.CreatedAt = u.s.now()
	u.s.users[user.ID] = *user
	return nil
}

func (u *Users) FindByID(_ context.Context, id uint) (*entities.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (u *Users) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, user := range u.s.users {
		if lower(user.Email) == lower(email) {
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (u *Users) CountByRole(_ context.Context, role string) (int64, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	var n int64
	for _, user := range u.s.users {
		if user.Role == role {
			n++
		}
	}
	return n, nil
}

func (u *Users) Delete(_ context.Context, id uint) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, ok := u.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(u.s.users, id)
	for eid, e := range u.s.events {
		if e.OwnerID == id {
			e.OwnerID = 0
			u.s.events[eid] = e
		}
	}
	for rid, r := range u.s.registrations {
		if r.UserID == id {
			r.UserID = 0
			u.s.registrations[rid] = r
		}
	}
	return nil
}
