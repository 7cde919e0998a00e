package application

import (
	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
)

// Capability is an action a requester may be granted on a resource.
type Capability string

const (
	CapCreateEvent    Capability = "event:create"
	CapManageEvent    Capability = "event:manage"
	CapViewStats      Capability = "stats:view"
	CapListOwned      Capability = "event:list_owned"
	CapRegisterSelf   Capability = "registration:self"
	CapRequestInsight Capability = "insight:request"
	CapDeleteUser     Capability = "user:delete"
)

// Policy is the single authorization point of the ledger. Every mutating
// operation asks it before touching the store.
type Policy struct{}

// Can reports whether id holds capability c on event (event may be nil for
// capabilities that are not tied to one event).
func (Policy) Can(id *entities.Identity, c Capability, event *entities.Event) bool {
	if id == nil {
		return false
	}
	isAdmin := id.Role == domain.RoleAdmin
	switch c {
	case CapCreateEvent, CapViewStats, CapListOwned, CapDeleteUser:
		return isAdmin
	case CapManageEvent:
		if !isAdmin || event == nil {
			return false
		}
		// Ownerless events (owner account removed) fall back to any admin.
		return !event.HasOwner() || event.OwnerID == id.UserID
	case CapRegisterSelf, CapRequestInsight:
		return true
	default:
		return false
	}
}

// Require returns domain.ErrUnauthorized for a missing identity and
// domain.ErrForbidden when the capability is not granted.
func (p Policy) Require(id *entities.Identity, c Capability, event *entities.Event) error {
	if id == nil {
		return domain.ErrUnauthorized
	}
	if !p.Can(id, c, event) {
		return domain.ErrForbidden
	}
	return nil
}
