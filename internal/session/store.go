package session

import (
	"context"
	"time"
)

// Store is the ephemeral per-user session store.
//
// Expiry is the store's responsibility: a Get after the TTL has elapsed
// reports absence. Callers must tolerate a session vanishing between a Get
// and a later Set or Delete.
type Store interface {
	// Get returns the user's session, or false if none exists.
	Get(ctx context.Context, userID string) (Session, bool, error)

	// Set writes the user's session with the given TTL, replacing any
	// existing record and restarting its expiry window.
	Set(ctx context.Context, userID string, s Session, ttl time.Duration) error

	// Delete removes the user's session. Deleting an absent session is not
	// an error.
	Delete(ctx context.Context, userID string) error
}
