package domain

import "errors"

// Error kinds returned by the ledger. Callers match them with errors.Is.
var (
	// ErrNotFound means the referenced wallet or request does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means the request is already resolved, or the
	// balance would go negative where that is forbidden.
	ErrInvalidState = errors.New("invalid state")
	// ErrNotAuthenticated means no acting identity was supplied.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrConflict means a concurrent write won; retry from a fresh read.
	ErrConflict = errors.New("conflict")
	// ErrStore wraps a durable-store failure.
	ErrStore = errors.New("store error")
	// ErrInvalidInput means the command itself is malformed.
	ErrInvalidInput = errors.New("invalid input")
)

// Kind names the error kind of err, for logs, metrics and API bodies
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "store_error"
	}
}
