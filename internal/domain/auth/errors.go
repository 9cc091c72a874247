package auth

import "errors"

var (
	// ErrPasswordNotConfigured is returned when the server has no login password set.
	// It is a deployment problem and must never be reported as a wrong password.
	ErrPasswordNotConfigured = errors.New("dashboard password is not configured")
	// ErrInvalidPassword is returned when the supplied password does not match
	ErrInvalidPassword = errors.New("invalid password")
)
