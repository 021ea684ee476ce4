// Package event provides an observer bus for history notifications.
//
// The history engine itself reports through plain callbacks. This
// package turns those callbacks into a subscription interface: create a
// Bus, pass its Hooks to the manager options, and any number of
// handlers can observe execute/undo/redo traffic without the engine
// knowing about them.
//
//	bus := event.NewBus()
//	sub := bus.SubscribeFunc(func(e event.Event) { ... }, event.KindUndo)
//	defer bus.Unsubscribe(sub)
//
//	onExec, onUndo, onRedo := bus.Hooks()
//	mgr := history.New(
//		history.WithOnExecute(onExec),
//		history.WithOnUndo(onUndo),
//		history.WithOnRedo(onRedo),
//	)
package event

import (
	"time"

	"github.com/dshills/historian/internal/history"
)

// Kind identifies which engine operation produced an event.
type Kind int

const (
	// KindExecute is emitted after a successful execute.
	KindExecute Kind = iota

	// KindUndo is emitted after a successful undo.
	KindUndo

	// KindRedo is emitted after a successful redo.
	KindRedo
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindExecute:
		return "execute"
	case KindUndo:
		return "undo"
	case KindRedo:
		return "redo"
	default:
		return "unknown"
	}
}

// Event describes one engine operation on one timeline entry.
type Event struct {
	// Kind is the operation that produced the event.
	Kind Kind

	// ActionID is the identifier of the affected action.
	ActionID string

	// Description is the action's human-readable label.
	Description string

	// Timestamp is the entry's original execution time. It does not
	// change across undo and redo of the same entry.
	Timestamp time.Time
}

// Handler processes events delivered by a Bus.
type Handler interface {
	Handle(e Event)
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(e Event)

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(e Event) { f(e) }

func fromEntry(kind Kind, entry *history.Entry) Event {
	return Event{
		Kind:        kind,
		ActionID:    entry.ID(),
		Description: entry.Description(),
		Timestamp:   entry.Timestamp(),
	}
}
