package domain

import "errors"

var (
	// ErrInvalidQuizID is returned when a caller-supplied quiz identifier cannot be normalized.
	ErrInvalidQuizID = errors.New("invalid quiz id")
	// ErrInvalidRecord is returned when a result violates the record invariants.
	ErrInvalidRecord = errors.New("invalid result record")
	// ErrStorageWrite indicates a result could not be durably recorded.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrQuizNotFound indicates the quiz catalog has no entry for an id.
	ErrQuizNotFound = errors.New("quiz not found")
)
