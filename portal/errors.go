package portal

import "errors"

var (
	// ErrNotFound is returned when an update or delete names an identity
	// that is not in the collection. The collection is left unchanged.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials never says whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrNotAuthenticated = errors.New("not logged in")
	ErrForbidden        = errors.New("not allowed for this account")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidInput     = errors.New("invalid input")
)
