package driver

import "errors"

var (
	// ErrUnknownKind is returned when a driver spec names a kind that has
	// no registered implementation.
	ErrUnknownKind = errors.New("driver: unknown kind")

	// ErrAlreadyStarted is returned when Start is called on a running
	// supervisor.
	ErrAlreadyStarted = errors.New("driver: supervisor already started")
)
