// Package jsondoc provides a mutable JSON document and reversible edit
// actions over it for use with the history engine.
//
// A Document holds raw JSON bytes behind a mutex. Set and Delete build
// history.Action values that capture the prior value of the touched
// path at execute time, so undo restores exactly what was there before.
package jsondoc

import (
	"errors"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Errors for document operations.
var (
	// ErrInvalidJSON is returned when the initial document does not parse.
	ErrInvalidJSON = errors.New("invalid json document")

	// ErrPathNotFound is returned when deleting a path that does not exist.
	ErrPathNotFound = errors.New("path not found")
)

// Document is a JSON document safe for concurrent reads.
type Document struct {
	mu   sync.RWMutex
	data []byte
}

// New creates a document from raw JSON. Empty input yields an empty
// object.
func New(data []byte) (*Document, error) {
	if len(data) == 0 {
		data = []byte(`{}`)
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return &Document{data: append([]byte(nil), data...)}, nil
}

// Bytes returns a copy of the raw document.
func (d *Document) Bytes() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]byte(nil), d.data...)
}

// String returns the raw document as a string.
func (d *Document) String() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return string(d.data)
}

// Pretty returns the document indented for display.
func (d *Document) Pretty() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return gjson.GetBytes(d.data, "@pretty").String()
}

// Get returns the value at a gjson path.
func (d *Document) Get(path string) gjson.Result {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return gjson.GetBytes(d.data, path)
}

// lookup returns the raw JSON at path and whether it exists.
func (d *Document) lookup(path string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	res := gjson.GetBytes(d.data, path)
	return res.Raw, res.Exists()
}

func (d *Document) set(path string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	out, err := sjson.SetBytes(d.data, path, value)
	if err != nil {
		return err
	}
	d.data = out
	return nil
}

func (d *Document) setRaw(path, raw string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	out, err := sjson.SetRawBytes(d.data, path, []byte(raw))
	if err != nil {
		return err
	}
	d.data = out
	return nil
}

func (d *Document) remove(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	out, err := sjson.DeleteBytes(d.data, path)
	if err != nil {
		return err
	}
	d.data = out
	return nil
}
