package library

import "errors"

var (
	// ErrRunNotFound is returned when no run matches the lookup.
	ErrRunNotFound = errors.New("run not found")
	// ErrEpisodeNotFound is returned when a run has no record for the key.
	ErrEpisodeNotFound = errors.New("episode not found")
	// ErrSchemaMismatch indicates the database was created by an incompatible version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrLocked is returned when another process holds the write lock past the deadline.
	ErrLocked = errors.New("library is locked by another process")
)
