package domain

import "errors"

// ErrSessionNotFound is returned by state stores when a thread has no
// persisted state.
var ErrSessionNotFound = errors.New("session not found")

// ErrNotFound is returned by data collaborators when a lookup has no match.
var ErrNotFound = errors.New("record not found")
