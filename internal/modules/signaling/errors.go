package signaling

import "errors"

// Relay failure classes. The error text is the client-facing message carried
// by the `error` event, so it is capitalized prose rather than Go error style.
var (
	ErrInvalidJoinRequest  = errors.New("Invalid room join request")
	ErrTooManyJoinAttempts = errors.New("Too many room join attempts")
	ErrRoomFull            = errors.New("Room is full")
	ErrRoomNotFound        = errors.New("Room not found")
	ErrUserNotFound        = errors.New("User not found")
	ErrTargetRequired      = errors.New("Target required for sharing encrypted session key")
	ErrInvalidRequest      = errors.New("Invalid request")
)
