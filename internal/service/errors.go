package service

import "errors"

// Failure taxonomy surfaced to transport. Every workflow failure is one of
// these, wrapped with context; nothing is recovered or retried silently.
var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means the requested transition is not legal from the
	// transaction's current status. Callers must re-fetch before retrying.
	ErrInvalidState = errors.New("invalid state transition")
	// ErrValidation means required input is missing or malformed. Raised
	// before any store mutation is attempted.
	ErrValidation = errors.New("validation failed")
	// ErrConflict means an optimistic version check failed on save.
	ErrConflict = errors.New("version conflict")
	// ErrRoleNotPermitted means the acting role is not allowed to decide at
	// the requested approval level.
	ErrRoleNotPermitted = errors.New("role not permitted")
)
