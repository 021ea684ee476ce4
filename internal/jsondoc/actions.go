package jsondoc

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/historian/internal/history"
)

// Set builds a reversible action that writes value at a gjson path.
// The prior value (or its absence) is captured each time the action
// executes, so undo restores it and redo re-applies the write.
func Set(doc *Document, path string, value any) history.Action {
	return &setAction{
		id:    uuid.NewString(),
		doc:   doc,
		path:  path,
		value: value,
	}
}

// Delete builds a reversible action that removes a gjson path.
// Executing it fails with ErrPathNotFound when the path is absent.
func Delete(doc *Document, path string) history.Action {
	return &deleteAction{
		id:   uuid.NewString(),
		doc:  doc,
		path: path,
	}
}

type setAction struct {
	id    string
	doc   *Document
	path  string
	value any

	prevRaw     string
	prevExisted bool
}

func (a *setAction) ID() string { return a.id }

func (a *setAction) Description() string {
	return fmt.Sprintf("set %s", a.path)
}

func (a *setAction) Execute(_ context.Context) error {
	a.prevRaw, a.prevExisted = a.doc.lookup(a.path)
	return a.doc.set(a.path, a.value)
}

func (a *setAction) Undo(_ context.Context) error {
	if a.prevExisted {
		return a.doc.setRaw(a.path, a.prevRaw)
	}
	return a.doc.remove(a.path)
}

type deleteAction struct {
	id   string
	doc  *Document
	path string

	prevRaw string
}

func (a *deleteAction) ID() string { return a.id }

func (a *deleteAction) Description() string {
	return fmt.Sprintf("delete %s", a.path)
}

func (a *deleteAction) Execute(_ context.Context) error {
	raw, ok := a.doc.lookup(a.path)
	if !ok {
		return fmt.Errorf("delete %s: %w", a.path, ErrPathNotFound)
	}
	a.prevRaw = raw
	return a.doc.remove(a.path)
}

func (a *deleteAction) Undo(_ context.Context) error {
	return a.doc.setRaw(a.path, a.prevRaw)
}
