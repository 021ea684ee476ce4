// Package history provides a reversible-action history engine.
//
// Callers supply Actions — units of work with an explicit forward
// (Execute) and inverse (Undo) operation — and the Manager tracks them
// on a single bounded timeline with a cursor marking the boundary
// between done and undone actions. Key concepts:
//
// # Actions
//
// An Action carries an identifier, a human-readable description, and
// the execute/undo pair. The engine never interprets what an action
// does; it only orchestrates the calls. Closure-backed actions with an
// opaque payload are built with NewFunc:
//
//	act := history.NewFunc("", "rename file", doRename, undoRename, meta)
//
// # Timeline and Cursor
//
// The Manager holds executed entries in order. The cursor points at the
// most recently executed, not-yet-undone entry (-1 when nothing is
// done). Entries past the cursor form the redo tail; executing a new
// action discards that tail, so history is a single branch, never a
// tree. The timeline is capped; the oldest entries are evicted first.
//
// # Usage
//
//	mgr := history.New(history.WithMaxSize(100))
//
//	// Execute actions
//	if err := mgr.Execute(ctx, act); err != nil { ... }
//
//	// Undo/redo
//	mgr.Undo(ctx)
//	mgr.Redo(ctx)
//
// # Serialization of Calls
//
// At most one Execute, Undo, or Redo runs at a time. A call arriving
// while another is in flight is dropped, not queued: it returns nil
// immediately without touching the timeline or firing callbacks. A
// rapid double "undo" therefore undoes once. Boundary calls (undo with
// nothing done, redo with no tail) are silent no-ops as well.
//
// # Failure
//
// Errors from an action's Execute or Undo propagate unchanged to the
// caller. The engine never retries, logs, or swallows; it only keeps
// its own bookkeeping consistent with what actually happened — a failed
// undo leaves the entry still counted as done, a failed execute appends
// nothing.
//
// # Grouping
//
// Several actions can form one undo unit via Composite or the
// ExecuteGroup convenience:
//
//	mgr.ExecuteGroup(ctx, "find and replace", acts...)
package history
