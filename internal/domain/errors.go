package domain

import "errors"

var (
	// ErrUnauthorized indicates a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates a valid credential with insufficient role,
	// or a caller who is not a participant of the session.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates an unknown session or room id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument indicates a malformed or incomplete request.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState indicates the operation is not valid for the
	// session's current status.
	ErrInvalidState = errors.New("invalid state")
)
