package delivery

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no attempt exists with the given id
var ErrNotFound = errors.New("attempt not found")

// Reader provides read operations for the delivery log
type Reader interface {
	Get(ctx context.Context, id string) (Attempt, error)
	/* Query returns attempts matching the filter, newest first,
	 * bounded so the log view response stays small
	 */
	Query(ctx context.Context, f Filter) ([]Attempt, error)
}

// Writer provides the single append operation
type Writer interface {
	Append(ctx context.Context, a Attempt) error
}

type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
