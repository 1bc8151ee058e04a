package conversation

import "github.com/weihant/linetodo/internal/todo"

// Reply is a platform-agnostic description of one message to send back.
// The transport layer renders replies into chat-platform payloads; the
// engine never builds visual layout.
type Reply interface {
	isReply()
}

// TextReply is a plain text message.
type TextReply struct {
	Text string
}

func (TextReply) isReply() {}

// ListKind tags a todo list by the status of its items. The renderer
// attaches complete/delete controls to pending lists only.
type ListKind string

const (
	// ListPending is a list of todos still to be done.
	ListPending ListKind = "pending"
	// ListCompleted is a list of finished todos.
	ListCompleted ListKind = "completed"
)

// TodoListReply is an ordered list of todos of one status.
type TodoListReply struct {
	Kind    ListKind
	AltText string
	Items   []todo.Todo
}

func (TodoListReply) isReply() {}

// MenuReply asks the renderer for the query option menu.
type MenuReply struct{}

func (MenuReply) isReply() {}
