package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a conditional update loses: the row exists but
// its current state no longer matches the expected one (e.g. a message that
// was answered by a concurrent request).
var ErrConflict = errors.New("conflict")

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (e.g. signing up with an email that is already registered).
var ErrDuplicate = errors.New("duplicate")
