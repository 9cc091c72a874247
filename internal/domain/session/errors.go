package session

import "errors"

var (
	// ErrSessionNotFound is returned when no session matches a fingerprint
	ErrSessionNotFound = errors.New("session not found")
	// ErrDuplicateFingerprint is returned when a fingerprint is already stored
	ErrDuplicateFingerprint = errors.New("duplicate session fingerprint")
)
