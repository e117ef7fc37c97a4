package hub

import "errors"

var (
	// ErrAlreadyBound is returned when a connection that already has an
	// identity tries to bind another one.
	ErrAlreadyBound = errors.New("connection already has a bound identity")

	// ErrUnknownConnection is returned for operations referencing a
	// connection id that is not (or no longer) registered.
	ErrUnknownConnection = errors.New("unknown connection")

	// ErrEmptyUsername is returned when a join carries no username.
	ErrEmptyUsername = errors.New("username must not be empty")
)
