package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrUnauthorized          = errors.New("authentication required")
	ErrForbidden             = errors.New("not allowed to perform this action")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrUserNotFound          = errors.New("user not found")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrEventNotFound         = errors.New("event not found")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrDuplicateRegistration = errors.New("already registered for this event")
	ErrEventFull             = errors.New("event is full")
	ErrNotRegistered         = errors.New("not registered for this event")
	ErrAlreadyCheckedIn      = errors.New("already checked in")
	ErrValidation            = errors.New("invalid input")
	ErrUpstream              = errors.New("upstream service unavailable")
)

// ValidationError reports which input field was rejected and why.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

var codes = []struct {
	err  error
	code string
}{
	{ErrUnauthorized, "unauthorized"},
	{ErrForbidden, "forbidden"},
	{ErrInvalidCredentials, "invalid_credentials"},
	{ErrUserNotFound, "user_not_found"},
	{ErrDuplicateEmail, "duplicate_email"},
	{ErrEventNotFound, "event_not_found"},
	{ErrRegistrationNotFound, "registration_not_found"},
	{ErrDuplicateRegistration, "duplicate_registration"},
	{ErrEventFull, "event_full"},
	{ErrNotRegistered, "not_registered"},
	{ErrAlreadyCheckedIn, "already_checked_in"},
	{ErrValidation, "validation"},
	{ErrUpstream, "upstream"},
}

// Code returns the stable code of the domain error wrapped in err, or "" when
// err is not a domain error (storage or programming failure).
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}
