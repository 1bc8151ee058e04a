// Package session tracks per-user multi-turn input collection state.
//
// A session exists only while the bot is waiting for the user's next
// message; an absent session means the user is idle. Sessions expire after
// a fixed inactivity window enforced by the store.
package session

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTTL is the inactivity window after which a session expires.
const DefaultTTL = 300 * time.Second

// State identifies which input the bot is waiting for. The values are the
// wire strings stored in the session record.
type State string

const (
	// StateAwaitingTitle means the user was asked for a todo title.
	StateAwaitingTitle State = "addingTodo"

	// StateAwaitingDueDate means the user was asked for a due date and the
	// session carries the title entered in the previous turn.
	StateAwaitingDueDate State = "addingTodoDate"

	// StateAwaitingDateRange means the user was asked for a query date range.
	StateAwaitingDateRange State = "inputDate"
)

// ErrInvalidSession indicates a session whose fields do not match its state.
var ErrInvalidSession = errors.New("invalid session")

// Session is one user's conversation state. Build sessions through the
// constructors so that a due-date session always carries a title.
type Session struct {
	State State  `json:"status"`
	Title string `json:"title,omitempty"`
}

// AwaitingTitle returns a session waiting for a todo title.
func AwaitingTitle() Session {
	return Session{State: StateAwaitingTitle}
}

// AwaitingDueDate returns a session waiting for the due date of the todo
// with the given title.
func AwaitingDueDate(title string) (Session, error) {
	if title == "" {
		return Session{}, fmt.Errorf("%w: due-date session requires a title", ErrInvalidSession)
	}
	return Session{State: StateAwaitingDueDate, Title: title}, nil
}

// AwaitingDateRange returns a session waiting for a query date range.
func AwaitingDateRange() Session {
	return Session{State: StateAwaitingDateRange}
}

// Validate checks the state/field combination. Stores reject invalid
// sessions on write so a malformed record can never be observed later.
func (s Session) Validate() error {
	switch s.State {
	case StateAwaitingTitle, StateAwaitingDateRange:
		if s.Title != "" {
			return fmt.Errorf("%w: state %q does not carry a title", ErrInvalidSession, s.State)
		}
		return nil
	case StateAwaitingDueDate:
		if s.Title == "" {
			return fmt.Errorf("%w: state %q requires a title", ErrInvalidSession, s.State)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown state %q", ErrInvalidSession, s.State)
	}
}
