package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/weihant/linetodo/internal/session"
)

// fakeClock is a controllable time source.
type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	_, found, err := store.Get(ctx, "user1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected no session for fresh user")
	}

	if err := store.Set(ctx, "user1", session.AwaitingTitle(), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, found, err := store.Get(ctx, "user1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected session to exist")
	}
	if got.State != session.StateAwaitingTitle {
		t.Errorf("expected state %q, got %q", session.StateAwaitingTitle, got.State)
	}
}

func TestMemoryStore_RejectsInvalidSession(t *testing.T) {
	store := session.NewMemoryStore()

	err := store.Set(context.Background(), "user1",
		session.Session{State: session.StateAwaitingDueDate}, time.Minute)
	if err == nil {
		t.Fatal("expected invalid session to be rejected")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	store := session.NewMemoryStore(session.WithClock(clock.Now))

	if err := store.Set(ctx, "user1", session.AwaitingTitle(), 300*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(299 * time.Second)
	if _, found, _ := store.Get(ctx, "user1"); !found {
		t.Fatal("expected session to survive within the TTL")
	}

	clock.Advance(2 * time.Second)
	if _, found, _ := store.Get(ctx, "user1"); found {
		t.Fatal("expected session to expire after the TTL")
	}
}

func TestMemoryStore_SetRestartsTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	store := session.NewMemoryStore(session.WithClock(clock.Now))

	if err := store.Set(ctx, "user1", session.AwaitingTitle(), 300*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(200 * time.Second)

	next, err := session.AwaitingDueDate("買牛奶")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Set(ctx, "user1", next, 300*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 200s past the original deadline but within the restarted window.
	clock.Advance(250 * time.Second)
	got, found, _ := store.Get(ctx, "user1")
	if !found {
		t.Fatal("expected rewrite to restart the expiry window")
	}
	if got.Title != "買牛奶" {
		t.Errorf("expected updated session, got %+v", got)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	if err := store.Set(ctx, "user1", session.AwaitingTitle(), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, "user1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, found, _ := store.Get(ctx, "user1"); found {
		t.Fatal("expected session to be gone after delete")
	}

	// Deleting an absent session is not an error.
	if err := store.Delete(ctx, "user1"); err != nil {
		t.Fatalf("unexpected error deleting absent session: %v", err)
	}
}

func TestMemoryStore_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	store := session.NewMemoryStore(session.WithClock(clock.Now))

	_ = store.Set(ctx, "user1", session.AwaitingTitle(), 100*time.Second)
	_ = store.Set(ctx, "user2", session.AwaitingDateRange(), 500*time.Second)

	clock.Advance(200 * time.Second)

	removed := store.CleanupExpired()
	if removed != 1 {
		t.Errorf("expected 1 removed entry, got %d", removed)
	}

	stats := store.Stats()
	if stats["total"] != 1 || stats["active"] != 1 {
		t.Errorf("unexpected stats after cleanup: %v", stats)
	}
}

func TestMemoryStore_SweeperRemovesExpiredEntries(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	store := session.NewMemoryStore(session.WithClock(clock.Now))

	_ = store.Set(ctx, "user1", session.AwaitingTitle(), 50*time.Millisecond)
	clock.Advance(time.Second)

	stop := store.StartSweeper(ctx, 5*time.Millisecond)
	defer stop()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if store.Stats()["total"] == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected the sweeper to reclaim the expired entry")
}

func TestMemoryStore_SweeperStopIsIdempotent(t *testing.T) {
	store := session.NewMemoryStore()

	stop := store.StartSweeper(context.Background(), 5*time.Millisecond)
	stop()
	stop()
}

func TestMemoryStore_SweeperStopsOnContextCancel(t *testing.T) {
	store := session.NewMemoryStore()

	ctx, cancel := context.WithCancel(context.Background())
	stop := store.StartSweeper(ctx, 5*time.Millisecond)

	cancel()

	// stop blocks until the goroutine has exited; cancellation alone must
	// be enough to get it there.
	stop()
}
