package todo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository for local runs and tests.
type MemoryRepository struct {
	todos map[string]Todo
	mu    sync.RWMutex
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		todos: make(map[string]Todo),
	}
}

// Create stores the todo under a fresh ID.
func (r *MemoryRepository) Create(_ context.Context, t Todo) (Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = uuid.NewString()
	r.todos[t.ID] = t
	return t, nil
}

// FindByStatus returns the user's todos with the given status, sorted
// ascending by CreatedAt.
func (r *MemoryRepository) FindByStatus(_ context.Context, userID string, status Status) ([]Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(t Todo) bool {
		return t.UserID == userID && t.Status == status
	}), nil
}

// FindByRange returns the user's todos with the given status whose
// CreatedAt falls within [start, end), sorted ascending by CreatedAt.
func (r *MemoryRepository) FindByRange(
	_ context.Context,
	userID string,
	status Status,
	start, end time.Time,
) ([]Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(t Todo) bool {
		return t.UserID == userID &&
			t.Status == status &&
			!t.CreatedAt.Before(start) &&
			t.CreatedAt.Before(end)
	}), nil
}

// UpdateStatus sets the status of the identified todo.
func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, status Status) (Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok {
		return Todo{}, ErrNotFound
	}

	t.Status = status
	r.todos[id] = t
	return t, nil
}

// Delete removes the identified todo.
func (r *MemoryRepository) Delete(_ context.Context, id string) (Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok {
		return Todo{}, ErrNotFound
	}

	delete(r.todos, id)
	return t, nil
}

// collect gathers matching todos sorted ascending by CreatedAt.
// Callers must hold at least a read lock.
func (r *MemoryRepository) collect(match func(Todo) bool) []Todo {
	var result []Todo
	for _, t := range r.todos {
		if match(t) {
			result = append(result, t)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}
