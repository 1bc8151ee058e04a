// Package command implements the keyword overlay: an unconditional scan of
// every inbound message for inline complete/delete actions.
//
// The overlay is deliberately independent of conversation state. A message
// that was already consumed as state input (for example a todo title that
// happens to contain the delete marker) is still scanned and can trigger an
// action on top of the state transition. That dual interpretation is
// long-standing product behavior; tests in the conversation package pin it.
//
// Parsing is pure. The engine executes the returned actions against the
// todo repository:
//
//	for _, action := range command.Parse(text) {
//	    switch action.Kind {
//	    case command.Complete:
//	        // mark action.TodoID completed
//	    case command.Delete:
//	        // delete action.TodoID
//	    }
//	}
//
// Two exact-match exclusions apply to the complete marker only: the list
// view commands 已完成 and 未完成 contain the marker substring but are never
// treated as actions.
package command
