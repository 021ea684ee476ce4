package history

import (
	"context"

	"github.com/google/uuid"
)

// Action represents a reversible unit of work that can be executed and undone.
type Action interface {
	// ID returns the caller-chosen identifier for the action.
	// IDs need not be unique; the engine never interprets them.
	ID() string

	// Description returns a human-readable label for UI display.
	Description() string

	// Execute performs the forward operation. It is called once at
	// initial execution and again on every redo.
	Execute(ctx context.Context) error

	// Undo performs the inverse operation. It is called on every undo.
	Undo(ctx context.Context) error
}

// Func is a closure-backed Action carrying an opaque payload.
// The engine never inspects the payload; it exists purely so callers
// can attach data to an action and read it back later.
type Func[P any] struct {
	id          string
	description string
	execute     func(ctx context.Context) error
	undo        func(ctx context.Context) error
	payload     P
}

// NewFunc creates a closure-backed action. An empty id is replaced with
// a generated UUID. Nil execute or undo functions are treated as no-ops.
func NewFunc[P any](id, description string, execute, undo func(ctx context.Context) error, payload P) *Func[P] {
	if id == "" {
		id = uuid.NewString()
	}
	return &Func[P]{
		id:          id,
		description: description,
		execute:     execute,
		undo:        undo,
		payload:     payload,
	}
}

// ID returns the action identifier.
func (f *Func[P]) ID() string { return f.id }

// Description returns the human-readable label.
func (f *Func[P]) Description() string { return f.description }

// Execute runs the forward closure.
func (f *Func[P]) Execute(ctx context.Context) error {
	if f.execute == nil {
		return nil
	}
	return f.execute(ctx)
}

// Undo runs the inverse closure.
func (f *Func[P]) Undo(ctx context.Context) error {
	if f.undo == nil {
		return nil
	}
	return f.undo(ctx)
}

// Payload returns the caller data carried by the action.
func (f *Func[P]) Payload() P { return f.payload }
