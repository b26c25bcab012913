package history

import (
	"context"
	"fmt"
	"time"
)

// Storage persists validation records.
//
// Implementations must be safe for concurrent use. Query results are
// returned newest first.
type Storage interface {
	// Store persists one record.
	Store(ctx context.Context, record *Record) error

	// Query returns records matching the query, newest first.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteOlderThan removes records validated before the cutoff and
	// returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// TrimToCount removes the oldest records until at most max remain and
	// returns how many were removed.
	TrimToCount(ctx context.Context, max int64) (int64, error)

	// Close releases backend resources.
	Close() error
}

// StorageError indicates a storage backend failure.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("history storage %s: %s failed: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}
