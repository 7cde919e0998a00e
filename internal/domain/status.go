package domain

// Registration statuses. A registration is attended iff an attendance mark exists.
const (
	StatusRegistered = "registered"
	StatusAttended   = "attended"
)

// User roles. Roles are fixed at account creation.
const (
	RoleAdmin    = "admin"
	RoleAttendee = "attendee"
)

// DateLayout is the fixed-width ISO-8601 layout events are stored with, so that
// lexicographic order on the stored string equals chronological order.
const DateLayout = "2006-01-02T15:04:05Z"
