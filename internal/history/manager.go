package history

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultMaxSize is the timeline cap used when none is configured.
const DefaultMaxSize = 50

// Entry is an executed action plus the wall-clock time of its initial
// execution. The timestamp is assigned once and not updated on redo.
type Entry struct {
	action    Action
	timestamp time.Time
}

// Action returns the underlying action.
func (e *Entry) Action() Action { return e.action }

// ID returns the underlying action's identifier.
func (e *Entry) ID() string { return e.action.ID() }

// Description returns the underlying action's label.
func (e *Entry) Description() string { return e.action.Description() }

// Timestamp returns when the action was first executed.
func (e *Entry) Timestamp() time.Time { return e.timestamp }

// EntryInfo provides read-only info about a timeline entry.
// Used for displaying the undo/redo lists to users.
type EntryInfo struct {
	ID          string
	Description string
	Timestamp   time.Time
}

// Option configures a Manager during creation.
type Option func(*Manager)

// WithMaxSize caps the timeline length. Values <= 0 keep the default.
func WithMaxSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxSize = n
		}
	}
}

// WithOnExecute sets a callback invoked after each successful execute.
func WithOnExecute(fn func(*Entry)) Option {
	return func(m *Manager) {
		m.onExecute = fn
	}
}

// WithOnUndo sets a callback invoked after each successful undo.
func WithOnUndo(fn func(*Entry)) Option {
	return func(m *Manager) {
		m.onUndo = fn
	}
}

// WithOnRedo sets a callback invoked after each successful redo.
func WithOnRedo(fn func(*Entry)) Option {
	return func(m *Manager) {
		m.onRedo = fn
	}
}

// Manager owns one bounded timeline of executed actions and a cursor
// marking the boundary between done and undone entries.
//
// Execute, Undo, and Redo are mutually exclusive: a busy flag admits at
// most one in-flight orchestration call, and overlapping calls are
// dropped rather than queued. Action code runs with the internal lock
// released, so queries stay responsive while an action does slow work.
// Independent Manager instances are fully isolated.
type Manager struct {
	mu       sync.Mutex
	timeline []*Entry
	cursor   int // index of last done entry, -1 when nothing is done
	maxSize  int

	busy atomic.Bool

	onExecute func(*Entry)
	onUndo    func(*Entry)
	onRedo    func(*Entry)
}

// New creates a history manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		cursor:  -1,
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute runs the action and, on success, records it at the cursor.
// Any redo tail is discarded first, so redo becomes unavailable.
// If the timeline would exceed its cap, the oldest entries are evicted.
//
// An error from the action propagates unchanged and leaves the timeline
// untouched. The call is silently dropped if another orchestration call
// is in flight.
func (m *Manager) Execute(ctx context.Context, action Action) error {
	if !m.busy.CompareAndSwap(false, true) {
		return nil
	}
	defer m.busy.Store(false)

	if err := action.Execute(ctx); err != nil {
		return err
	}

	entry := &Entry{action: action, timestamp: time.Now()}

	m.mu.Lock()
	m.timeline = append(m.timeline[:m.cursor+1], entry)
	if excess := len(m.timeline) - m.maxSize; excess > 0 {
		m.timeline = m.timeline[excess:]
	}
	m.cursor = len(m.timeline) - 1
	m.mu.Unlock()

	if m.onExecute != nil {
		m.onExecute(entry)
	}
	return nil
}

// Undo reverses the entry at the cursor. With nothing to undo, or with
// another call in flight, it is a silent no-op.
//
// If the action's Undo fails the cursor does not move: the entry is
// still counted as done, since its reversal did not happen.
func (m *Manager) Undo(ctx context.Context) error {
	if !m.busy.CompareAndSwap(false, true) {
		return nil
	}
	defer m.busy.Store(false)

	m.mu.Lock()
	if m.cursor < 0 {
		m.mu.Unlock()
		return nil
	}
	entry := m.timeline[m.cursor]
	m.mu.Unlock()

	// Run the action's inverse without holding the lock.
	if err := entry.action.Undo(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	// Clear or SetMaxSize may have rewritten the timeline while the
	// action ran; move the cursor only if it still points at this entry.
	if m.cursor >= 0 && m.cursor < len(m.timeline) && m.timeline[m.cursor] == entry {
		m.cursor--
	}
	m.mu.Unlock()

	if m.onUndo != nil {
		m.onUndo(entry)
	}
	return nil
}

// Redo re-executes the entry just past the cursor. The entry's own
// Execute runs again; its timestamp and position are unchanged. With no
// redo tail, or with another call in flight, it is a silent no-op.
func (m *Manager) Redo(ctx context.Context) error {
	if !m.busy.CompareAndSwap(false, true) {
		return nil
	}
	defer m.busy.Store(false)

	m.mu.Lock()
	if m.cursor >= len(m.timeline)-1 {
		m.mu.Unlock()
		return nil
	}
	entry := m.timeline[m.cursor+1]
	m.mu.Unlock()

	if err := entry.action.Execute(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	// Same timeline race as in Undo: advance only onto this entry.
	if next := m.cursor + 1; next < len(m.timeline) && m.timeline[next] == entry {
		m.cursor = next
	}
	m.mu.Unlock()

	if m.onRedo != nil {
		m.onRedo(entry)
	}
	return nil
}

// Clear drops the entire timeline and resets the cursor. No action
// code runs and no callbacks fire.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.timeline = nil
	m.cursor = -1
}

// CanUndo reports whether at least one entry is done.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor >= 0
}

// CanRedo reports whether a redo tail exists.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < len(m.timeline)-1
}

// Size returns the number of entries on the timeline, done or not.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timeline)
}

// Position returns the count of done entries (cursor + 1).
func (m *Manager) Position() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor + 1
}

// PeekUndo returns the entry that Undo would reverse.
func (m *Manager) PeekUndo() (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor < 0 {
		return nil, false
	}
	return m.timeline[m.cursor], true
}

// PeekRedo returns the entry that Redo would re-execute.
func (m *Manager) PeekRedo() (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor >= len(m.timeline)-1 {
		return nil, false
	}
	return m.timeline[m.cursor+1], true
}

// UndoList returns info for the done entries, oldest first.
func (m *Manager) UndoList() []EntryInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]EntryInfo, m.cursor+1)
	for i := 0; i <= m.cursor; i++ {
		result[i] = infoFor(m.timeline[i])
	}
	return result
}

// RedoList returns info for the redo tail in the order it would be redone.
func (m *Manager) RedoList() []EntryInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	tail := m.timeline[m.cursor+1:]
	result := make([]EntryInfo, len(tail))
	for i, entry := range tail {
		result[i] = infoFor(entry)
	}
	return result
}

func infoFor(e *Entry) EntryInfo {
	return EntryInfo{
		ID:          e.action.ID(),
		Description: e.action.Description(),
		Timestamp:   e.timestamp,
	}
}

// MaxSize returns the timeline cap.
func (m *Manager) MaxSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxSize
}

// SetMaxSize changes the timeline cap. If the timeline is larger, the
// oldest entries are evicted and the cursor follows them down, clamped
// at -1. Values <= 0 reset to the default.
func (m *Manager) SetMaxSize(n int) {
	if n <= 0 {
		n = DefaultMaxSize
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.maxSize = n

	if excess := len(m.timeline) - n; excess > 0 {
		m.timeline = m.timeline[excess:]
		m.cursor -= excess
		if m.cursor < -1 {
			m.cursor = -1
		}
	}
}
