package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("not authorized")
	ErrValidation         = errors.New("invalid input")

	// ErrNoResults marks a list operation that matched zero records. It is
	// distinct from the not-found errors above so the transport layer can
	// render the legacy 404-with-empty-list envelope instead of a plain 404.
	ErrNoResults = errors.New("no results")
)

// PolicyError is a policy denial carrying the reason shown to the client.
// It unwraps to ErrForbidden so the boundary maps it to 403.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return e.Reason }

func (e *PolicyError) Unwrap() error { return ErrForbidden }

// Forbidden builds a PolicyError from a denial reason.
func Forbidden(reason string) error {
	return &PolicyError{Reason: reason}
}
