package domain

import "errors"

// Sentinel errors for the account domain. Use errors.Is() to check these.
var (
	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidAccount indicates registration fields violate domain constraints.
	ErrInvalidAccount = errors.New("invalid account")
)

// ErrUserNotFound is returned by the repository for an unknown email. The
// service reports it to callers as ErrInvalidCredentials.
var ErrUserNotFound = errors.New("user not found")
