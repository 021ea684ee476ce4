package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Composite groups multiple actions as one undo unit.
type Composite struct {
	id      string
	name    string
	actions []Action
}

// NewComposite creates a composite action with a generated ID.
func NewComposite(name string, actions ...Action) *Composite {
	return &Composite{
		id:      uuid.NewString(),
		name:    name,
		actions: actions,
	}
}

// ID returns the generated composite identifier.
func (c *Composite) ID() string { return c.id }

// Description returns the composite's name, or a summary when unnamed.
func (c *Composite) Description() string {
	if c.name != "" {
		return c.name
	}
	if len(c.actions) == 1 {
		return c.actions[0].Description()
	}
	return fmt.Sprintf("%d actions", len(c.actions))
}

// Execute runs all actions in order. If one fails, the actions already
// executed are undone in reverse order before the error is returned, so
// a failed composite leaves no partial forward effect behind.
func (c *Composite) Execute(ctx context.Context) error {
	for i, act := range c.actions {
		if err := act.Execute(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.actions[j].Undo(ctx)
			}
			return fmt.Errorf("composite %q step %d: %w", c.Description(), i, err)
		}
	}
	return nil
}

// Undo reverses all actions in reverse order.
func (c *Composite) Undo(ctx context.Context) error {
	for i := len(c.actions) - 1; i >= 0; i-- {
		if err := c.actions[i].Undo(ctx); err != nil {
			return fmt.Errorf("undo composite %q step %d: %w", c.Description(), i, err)
		}
	}
	return nil
}

// Add appends an action to the composite.
func (c *Composite) Add(act Action) {
	c.actions = append(c.actions, act)
}

// Len returns the number of grouped actions.
func (c *Composite) Len() int {
	return len(c.actions)
}
