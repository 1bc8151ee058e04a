package todo

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the requested todo does not exist.
var ErrNotFound = errors.New("todo not found")

// Repository provides persistent todo storage.
//
// Ranged lookups are half-open: a todo is included when
// Start <= CreatedAt < End. All lookups return todos sorted ascending by
// CreatedAt.
type Repository interface {
	// Create persists a new todo and returns it with its assigned ID.
	Create(ctx context.Context, t Todo) (Todo, error)

	// FindByStatus returns all of a user's todos with the given status.
	FindByStatus(ctx context.Context, userID string, status Status) ([]Todo, error)

	// FindByRange returns a user's todos with the given status whose
	// CreatedAt falls within [start, end).
	FindByRange(ctx context.Context, userID string, status Status, start, end time.Time) ([]Todo, error)

	// UpdateStatus sets the status of the todo with the given ID and
	// returns the updated todo. Returns ErrNotFound if no such todo exists.
	UpdateStatus(ctx context.Context, id string, status Status) (Todo, error)

	// Delete removes the todo with the given ID and returns it.
	// Returns ErrNotFound if no such todo exists.
	Delete(ctx context.Context, id string) (Todo, error)
}
