package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// trip, item or category does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, start date not before end date).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrBusy is returned when an update lost to concurrent writers more times
// than the store retries. Nothing was written; the request can be retried.
// Handlers map it to HTTP 503.
var ErrBusy = errors.New("busy")

// ErrConflict is returned when a category or tag name collides with an
// existing one. Handlers map it to HTTP 400 alongside ErrValidation.
var ErrConflict = errors.New("conflict")
