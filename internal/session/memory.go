package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is how often the background sweeper reclaims
// expired entries.
const DefaultSweepInterval = time.Minute

// entry is a stored session plus its expiry deadline.
type entry struct {
	expiresAt time.Time
	session   Session
}

// MemoryStore implements Store in process memory for local runs and tests.
// Expiry is checked on read; CleanupExpired reclaims abandoned entries.
type MemoryStore struct {
	entries map[string]entry
	now     func() time.Time
	logger  *slog.Logger
	mu      sync.RWMutex
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithClock sets the time source, used by tests to control expiry.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// WithLogger sets the logger used by the background sweeper.
func WithLogger(logger *slog.Logger) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the user's session, or false if absent or expired.
func (s *MemoryStore) Get(_ context.Context, userID string) (Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[userID]
	if !ok || !s.now().Before(e.expiresAt) {
		return Session{}, false, nil
	}

	return e.session, true, nil
}

// Set writes the session with the given TTL.
func (s *MemoryStore) Set(_ context.Context, userID string, sess Session, ttl time.Duration) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[userID] = entry{
		session:   sess,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Delete removes the user's session.
func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, userID)
	return nil
}

// CleanupExpired removes expired entries and reports how many were removed.
func (s *MemoryStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0

	for userID, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, userID)
			removed++
		}
	}

	return removed
}

// Stats returns current entry counts for monitoring.
func (s *MemoryStore) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := 0
	now := s.now()

	for _, e := range s.entries {
		if now.Before(e.expiresAt) {
			active++
		}
	}

	return map[string]int{
		"total":  len(s.entries),
		"active": active,
	}
}

// StartSweeper launches a goroutine that calls CleanupExpired every
// interval until ctx is canceled or the returned stop function is called.
// stop waits for the goroutine to exit and is safe to call more than once.
// The Redis store needs no sweeper; Redis expires keys itself.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	quit := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)

		logger := s.logger.With(slog.String("component", "session.sweeper"))
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("session sweeper stopping")
				return
			case <-quit:
				logger.Info("session sweeper stopping")
				return
			case <-ticker.C:
				if removed := s.CleanupExpired(); removed > 0 {
					logger.InfoContext(ctx, "reclaimed expired sessions",
						slog.Int("removed", removed))
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
		<-exited
	}
}
