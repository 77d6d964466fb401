package users

import "errors"

var (
	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is returned when no account matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on a failed login. It covers
	// both an unknown email and a wrong password so callers cannot
	// probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidAccountType is returned when signup carries an unknown
	// account type.
	ErrInvalidAccountType = errors.New("invalid account type")
)
