package database

import (
	"context"
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound               = errors.New("record not found")
	ErrConcurrentModification = errors.New("booking was modified concurrently")
	ErrDuplicateApplication   = errors.New("worker already applied to this job")

	// ErrTransient marks store failures worth retrying: lock contention and
	// statement timeouts, not logical failures.
	ErrTransient = errors.New("transient store error")
)

// IsTransient reports whether err is a retryable store failure. Deadline
// expiries and sqlite busy/locked errors qualify; everything else surfaces
// as-is.
func IsTransient(err error) bool {
	if errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}
