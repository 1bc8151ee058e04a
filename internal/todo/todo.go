// Package todo defines the todo contract and its storage backends.
package todo

import "time"

// Status is the lifecycle state of a todo. The values are the wire strings
// persisted by the store and shown to users.
type Status string

const (
	// StatusPending indicates a todo that has not been completed yet.
	StatusPending Status = "尚未完成"

	// StatusCompleted indicates a finished todo.
	StatusCompleted Status = "完成"
)

// Todo is a single todo item owned by exactly one user.
type Todo struct {
	// CreatedAt is the due date the user chose, not the insertion time.
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
}
