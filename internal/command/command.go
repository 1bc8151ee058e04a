// Package command extracts inline todo actions from free-text messages.
// Every inbound message is scanned, regardless of conversation state.
package command

import "strings"

// Marker substrings that embed an action in a message. Reply buttons send
// messages of the form "<marker> <todo id>".
const (
	CompleteMarker = "完成"
	DeleteMarker   = "刪除"
)

// List-view commands that contain the complete marker but must never be
// read as complete actions. The exclusion is exact equality, not substring.
const (
	completedViewCommand = "已完成"
	pendingViewCommand   = "未完成"
)

// Kind identifies an inline action.
type Kind int

const (
	// Complete marks a todo as completed.
	Complete Kind = iota
	// Delete removes a todo.
	Delete
)

// String returns a readable name for logging.
func (k Kind) String() string {
	switch k {
	case Complete:
		return "complete"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Action is one inline action with its target todo identifier. The
// identifier is whatever remains after stripping the marker; it may name a
// todo that does not exist.
type Action struct {
	TodoID string
	Kind   Kind
}

// Parse scans text for inline actions.
//
// The checks are independent: a message carrying both markers yields both
// actions, complete before delete. Each action's target is the message with
// the first occurrence of that action's marker removed and whitespace
// trimmed.
func Parse(text string) []Action {
	var actions []Action

	if hasCompleteMarker(text) {
		actions = append(actions, Action{
			Kind:   Complete,
			TodoID: stripMarker(text, CompleteMarker),
		})
	}

	if strings.Contains(text, DeleteMarker) {
		actions = append(actions, Action{
			Kind:   Delete,
			TodoID: stripMarker(text, DeleteMarker),
		})
	}

	return actions
}

// hasCompleteMarker reports whether text carries a complete action. The two
// list-view commands contain the marker substring but are commands, not
// actions.
func hasCompleteMarker(text string) bool {
	return strings.Contains(text, CompleteMarker) &&
		text != completedViewCommand &&
		text != pendingViewCommand
}

// stripMarker removes the first occurrence of marker and trims the
// remainder. Later occurrences stay part of the target identifier.
func stripMarker(text, marker string) string {
	return strings.TrimSpace(strings.Replace(text, marker, "", 1))
}
