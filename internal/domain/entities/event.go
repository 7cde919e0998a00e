package entities

import "time"

type Event struct {
	ID                uint
	OwnerID           uint // 0 once the owner account is gone
	Title             string
	Description       string
	Date              string // domain.DateLayout
	Location          string
	Capacity          int
	Category          string
	RegistrationCount int // computed at read time
	Participants      []Registration
	CreatedAt         time.Time
}

func (e *Event) HasOwner() bool {
	return e.OwnerID != 0
}

// IsFull reports whether the live registration count reached capacity.
func (e *Event) IsFull() bool {
	return e.Capacity > 0 && e.RegistrationCount >= e.Capacity
}

// EventScope selects which events ListEvents returns.
type EventScope int

const (
	ScopeAll EventScope = iota
	ScopeOwned
)
