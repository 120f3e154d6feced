package store

import "errors"

var (
	// ErrConflict is returned when registering an email that already exists.
	ErrConflict = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and password mismatch,
	// so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound is returned when no user matches the given id.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidSession is returned for tokens that do not map to a live session.
	ErrInvalidSession = errors.New("invalid session")
	// ErrSessionExpired is returned for sessions past their absolute expiry.
	ErrSessionExpired = errors.New("session expired")
)
