package entities

import "time"

// User is an account able to sign in.
type User struct {
	ID           uint
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Department   string
	CreatedAt    time.Time
}

// Identity is the authenticated caller of an operation, loaded from the store
// at request time.
type Identity struct {
	UserID     uint
	Name       string
	Email      string
	Role       string
	Department string
}

// Session is returned by signup and login.
type Session struct {
	Token string
	User  User
}

func (u *User) Identity() Identity {
	return Identity{
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
	}
}
