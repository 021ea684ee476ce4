package history

import "context"

// ExecuteGroup executes multiple actions as a single undo unit.
// A single action is executed directly without wrapping.
func (m *Manager) ExecuteGroup(ctx context.Context, name string, actions ...Action) error {
	if len(actions) == 0 {
		return nil
	}
	if len(actions) == 1 {
		return m.Execute(ctx, actions[0])
	}
	return m.Execute(ctx, NewComposite(name, actions...))
}

// Checkpoint marks a position on the timeline that can be returned to.
// Eviction of old entries can make a checkpoint unreachable; UndoTo and
// RedoTo simply stop at the nearest reachable position.
type Checkpoint struct {
	position int
}

// CreateCheckpoint captures the current position (count of done entries).
func (m *Manager) CreateCheckpoint() Checkpoint {
	return Checkpoint{position: m.Position()}
}

// UndoTo undoes entries until the checkpoint position is reached.
// It stops early on error, or when an undo makes no progress (nothing
// left to undo, or the call was dropped because the engine was busy).
func (m *Manager) UndoTo(ctx context.Context, cp Checkpoint) error {
	for {
		pos := m.Position()
		if pos <= cp.position {
			return nil
		}
		if err := m.Undo(ctx); err != nil {
			return err
		}
		if m.Position() == pos {
			return nil
		}
	}
}

// RedoTo redoes entries until the checkpoint position is reached.
// This only works while the redo tail still holds the entries.
func (m *Manager) RedoTo(ctx context.Context, cp Checkpoint) error {
	for {
		pos := m.Position()
		if pos >= cp.position {
			return nil
		}
		if err := m.Redo(ctx); err != nil {
			return err
		}
		if m.Position() == pos {
			return nil
		}
	}
}
