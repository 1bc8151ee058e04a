// Package conversation implements the per-user conversation state machine
// that turns inbound chat text into session transitions and reply intents.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/weihant/linetodo/internal/command"
	"github.com/weihant/linetodo/internal/daterange"
	"github.com/weihant/linetodo/internal/session"
	"github.com/weihant/linetodo/internal/todo"
)

// Engine consumes one inbound text event at a time and produces reply
// intents. All collaborators are injected; the engine holds no connection
// state of its own.
//
// There is no cross-event lock: two events for the same user handled
// concurrently can race on the session record and the last write wins.
// Events within one webhook delivery are handed to the engine sequentially
// by the transport, which keeps that window small but does not close it.
type Engine struct {
	sessions session.Store
	todos    todo.Repository
	now      func() time.Time
	logger   *slog.Logger
	ttl      time.Duration
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the time source used for date range resolution.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithSessionTTL sets the inactivity window applied on session writes.
func WithSessionTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.ttl = ttl
	}
}

// NewEngine creates an engine with the given collaborators.
func NewEngine(sessions session.Store, todos todo.Repository, opts ...Option) (*Engine, error) {
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if todos == nil {
		return nil, errors.New("todo repository is required")
	}

	e := &Engine{
		sessions: sessions,
		todos:    todos,
		now:      time.Now,
		logger:   slog.Default(),
		ttl:      session.DefaultTTL,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Handle processes one inbound text event for a user.
//
// Side effects run in a fixed order: session read, branch selection,
// resolver/repository calls, session write or delete, replies out. After
// the state branch the keyword overlay scans the same text for inline
// actions, except on the branch's terminating error paths (bad date, bad or
// oversized range) which swallow the message entirely.
func (e *Engine) Handle(ctx context.Context, userID, text string) ([]Reply, error) {
	sess, found, err := e.sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session for %s: %w", userID, err)
	}

	actions := command.Parse(text)

	var replies []Reply
	terminate := false

	switch {
	case !found:
		replies, err = e.handleIdle(ctx, userID, text, len(actions) > 0)
	case sess.State == session.StateAwaitingTitle:
		replies, err = e.handleAwaitingTitle(ctx, userID, text)
	case sess.State == session.StateAwaitingDueDate:
		replies, terminate, err = e.handleAwaitingDueDate(ctx, userID, sess.Title, text)
	case sess.State == session.StateAwaitingDateRange:
		replies, terminate, err = e.handleAwaitingDateRange(ctx, userID, text)
	default:
		// Unknown state in the store; drop it and start over as idle.
		e.logger.WarnContext(ctx, "clearing session with unknown state",
			slog.String("user_id", userID),
			slog.String("state", string(sess.State)))
		if err = e.sessions.Delete(ctx, userID); err == nil {
			replies, err = e.handleIdle(ctx, userID, text, len(actions) > 0)
		}
	}
	if err != nil {
		return nil, err
	}
	if terminate {
		return replies, nil
	}

	for _, action := range actions {
		replies = append(replies, e.runAction(ctx, action))
	}

	return replies, nil
}

// handleIdle dispatches the fixed command vocabulary. hasInlineAction
// suppresses the unrecognized-command reply when the keyword overlay is
// about to answer the message instead, so an inline action arriving while
// idle produces exactly one reply.
func (e *Engine) handleIdle(ctx context.Context, userID, text string, hasInlineAction bool) ([]Reply, error) {
	switch text {
	case cmdAdd:
		if err := e.sessions.Set(ctx, userID, session.AwaitingTitle(), e.ttl); err != nil {
			return nil, fmt.Errorf("failed to start add flow for %s: %w", userID, err)
		}
		return []Reply{TextReply{Text: msgPromptTitle}}, nil

	case cmdInputDate:
		if err := e.sessions.Set(ctx, userID, session.AwaitingDateRange(), e.ttl); err != nil {
			return nil, fmt.Errorf("failed to start range flow for %s: %w", userID, err)
		}
		return []Reply{TextReply{Text: msgPromptRange}}, nil

	case cmdView:
		return []Reply{MenuReply{}}, nil

	case cmdCompletedList:
		return e.statusQuery(ctx, userID, todo.StatusCompleted, altCompletedList, msgNoCompleted)

	case cmdPendingList:
		return e.statusQuery(ctx, userID, todo.StatusPending, altPendingOnlyList, msgNoPending)

	case cmdToday:
		return e.rangedQuery(ctx, userID, daterange.Today(e.now()),
			altTodayPendingList, altTodayCompletedList, msgNoToday)

	case cmdThisWeek:
		return e.rangedQuery(ctx, userID, daterange.ThisWeek(e.now()),
			altWeekPendingList, altWeekCompletedList, msgNoThisWeek)

	case cmdThisMonth:
		month := int(e.now().In(daterange.Location).Month())
		return e.rangedQuery(ctx, userID, daterange.ThisMonth(e.now()),
			altMonthPendingList, altMonthCompletedList, fmt.Sprintf(msgMonthNotFound, month))

	default:
		if hasInlineAction {
			return nil, nil
		}
		return []Reply{TextReply{Text: msgUnrecognized}}, nil
	}
}

// handleAwaitingTitle takes any text verbatim as the new todo's title.
func (e *Engine) handleAwaitingTitle(ctx context.Context, userID, title string) ([]Reply, error) {
	next, err := session.AwaitingDueDate(title)
	if err != nil {
		// Empty title; keep waiting for one.
		return []Reply{TextReply{Text: msgPromptTitle}}, nil
	}

	if err := e.sessions.Set(ctx, userID, next, e.ttl); err != nil {
		return nil, fmt.Errorf("failed to store title for %s: %w", userID, err)
	}

	return []Reply{TextReply{Text: fmt.Sprintf(msgPromptDueDate, title)}}, nil
}

// handleAwaitingDueDate parses the due date and creates the todo. An
// unparseable date clears the session and terminates handling of the
// message. The session is cleared even when persistence fails; the user
// starts over rather than retrying a half-done flow.
func (e *Engine) handleAwaitingDueDate(
	ctx context.Context,
	userID, title, text string,
) ([]Reply, bool, error) {
	due, err := daterange.ParseDate(text)
	if err != nil {
		if err := e.sessions.Delete(ctx, userID); err != nil {
			return nil, false, fmt.Errorf("failed to clear session for %s: %w", userID, err)
		}
		return []Reply{TextReply{Text: msgDateFormatError}}, true, nil
	}

	created, createErr := e.todos.Create(ctx, todo.Todo{
		UserID:    userID,
		Title:     title,
		CreatedAt: due,
		Status:    todo.StatusPending,
	})

	var reply TextReply
	if createErr != nil {
		e.logger.ErrorContext(ctx, "failed to create todo",
			slog.String("user_id", userID),
			slog.Any("error", createErr))
		reply = TextReply{Text: msgCreateFailed}
	} else {
		reply = TextReply{Text: fmt.Sprintf(msgCreated, created.Title)}
	}

	if err := e.sessions.Delete(ctx, userID); err != nil {
		return nil, false, fmt.Errorf("failed to clear session for %s: %w", userID, err)
	}

	return []Reply{reply}, false, nil
}

// handleAwaitingDateRange parses "<start>,<end>" and runs the ranged query.
// Invalid input and oversized ranges clear the session and terminate
// handling of the message.
func (e *Engine) handleAwaitingDateRange(ctx context.Context, userID, text string) ([]Reply, bool, error) {
	startText, endText := splitRangeInput(text)

	r, rangeErr := daterange.Custom(startText, endText)
	if rangeErr != nil {
		if err := e.sessions.Delete(ctx, userID); err != nil {
			return nil, false, fmt.Errorf("failed to clear session for %s: %w", userID, err)
		}
		if errors.Is(rangeErr, daterange.ErrRangeTooLarge) {
			return []Reply{TextReply{Text: msgRangeTooLarge}}, true, nil
		}
		return []Reply{TextReply{Text: msgRangeFormatError}}, true, nil
	}

	replies, err := e.rangedQuery(ctx, userID, r, altPendingList, altCompletedList, msgRangeNotFound)
	if err != nil {
		return nil, false, err
	}

	if err := e.sessions.Delete(ctx, userID); err != nil {
		return nil, false, fmt.Errorf("failed to clear session for %s: %w", userID, err)
	}

	return replies, false, nil
}

// statusQuery runs a whole-history single-status lookup.
func (e *Engine) statusQuery(
	ctx context.Context,
	userID string,
	status todo.Status,
	altText, emptyMsg string,
) ([]Reply, error) {
	todos, err := e.todos.FindByStatus(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos for %s: %w", userID, err)
	}

	if len(todos) == 0 {
		return []Reply{TextReply{Text: emptyMsg}}, nil
	}

	kind := ListPending
	if status == todo.StatusCompleted {
		kind = ListCompleted
	}

	return []Reply{TodoListReply{Kind: kind, AltText: altText, Items: todos}}, nil
}

// rangedQuery fetches pending and completed todos within the range. Both
// empty yields a single not-found reply; otherwise one list per non-empty
// result set, pending first.
func (e *Engine) rangedQuery(
	ctx context.Context,
	userID string,
	r daterange.Range,
	pendingAlt, completedAlt, emptyMsg string,
) ([]Reply, error) {
	pending, err := e.todos.FindByRange(ctx, userID, todo.StatusPending, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending todos for %s: %w", userID, err)
	}

	completed, err := e.todos.FindByRange(ctx, userID, todo.StatusCompleted, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed todos for %s: %w", userID, err)
	}

	if len(pending) == 0 && len(completed) == 0 {
		return []Reply{TextReply{Text: emptyMsg}}, nil
	}

	var replies []Reply
	if len(pending) > 0 {
		replies = append(replies, TodoListReply{Kind: ListPending, AltText: pendingAlt, Items: pending})
	}
	if len(completed) > 0 {
		replies = append(replies, TodoListReply{Kind: ListCompleted, AltText: completedAlt, Items: completed})
	}

	return replies, nil
}

// runAction executes one inline action from the keyword overlay. A missing
// target is a user-visible not-found, never a system error.
func (e *Engine) runAction(ctx context.Context, action command.Action) Reply {
	var (
		target todo.Todo
		err    error
		format string
	)

	switch action.Kind {
	case command.Complete:
		target, err = e.todos.UpdateStatus(ctx, action.TodoID, todo.StatusCompleted)
		format = msgMarkedComplete
	case command.Delete:
		target, err = e.todos.Delete(ctx, action.TodoID)
		format = msgDeleted
	default:
		return TextReply{Text: msgActionFailed}
	}

	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return TextReply{Text: fmt.Sprintf(msgTodoNotFound, action.TodoID)}
		}
		e.logger.ErrorContext(ctx, "inline action failed",
			slog.String("kind", action.Kind.String()),
			slog.String("todo_id", action.TodoID),
			slog.Any("error", err))
		return TextReply{Text: msgActionFailed}
	}

	return TextReply{Text: fmt.Sprintf(format, target.Title)}
}

// splitRangeInput splits "<start>,<end>" on commas and keeps the first two
// fields; anything after a second comma is ignored. A missing comma leaves
// the end empty, which fails date parsing downstream and produces the
// wanted format error.
func splitRangeInput(text string) (startText, endText string) {
	parts := strings.Split(text, ",")
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
