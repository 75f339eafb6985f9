package storage

import "errors"

var (
	// ErrNotFound keeps storage-level lookup misses consistent across the
	// in-memory and Postgres implementations.
	ErrNotFound = errors.New("record not found")

	// ErrConflict marks writes rejected by a uniqueness or exclusion
	// constraint, such as an overlapping reservation on the same spot.
	ErrConflict = errors.New("record conflicts with existing state")
)
