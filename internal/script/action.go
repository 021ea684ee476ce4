// Package script loads reversible actions from Lua chunks.
//
// A chunk must define two global functions, execute and undo, and may
// set a global description string:
//
//	description = "bump the counter"
//
//	function execute()
//	    counter = (counter or 0) + 1
//	end
//
//	function undo()
//	    counter = counter - 1
//	end
//
// Load compiles the chunk in a sandboxed Lua state (base, table, string
// and math libraries only; no io, os, debug or package) and returns a
// history.Action whose Execute and Undo call into it. The Lua state is
// not goroutine-safe, so each action owns one state guarded by a mutex;
// the history engine's own serialization rules make contention rare.
package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single execute or undo call.
// Best-effort: Lua that never yields to the VM loop cannot be
// interrupted faster than gopher-lua's context checks allow.
const DefaultTimeout = 5 * time.Second

// Action is a reversible action whose behavior is defined in Lua.
type Action struct {
	id          string
	description string
	timeout     time.Duration

	mu      sync.Mutex
	state   *lua.LState
	execute *lua.LFunction
	undo    *lua.LFunction
	closed  bool

	goFuncs map[string]lua.LGFunction
}

// Option configures a scripted action before the chunk runs.
type Option func(*Action)

// WithTimeout bounds each execute/undo call. Values <= 0 keep the default.
func WithTimeout(d time.Duration) Option {
	return func(a *Action) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithID overrides the generated action ID.
func WithID(id string) Option {
	return func(a *Action) {
		if id != "" {
			a.id = id
		}
	}
}

// WithGoFunc exposes a Go function to the chunk under the given global
// name. Registration happens before the chunk body runs.
func WithGoFunc(name string, fn lua.LGFunction) Option {
	return func(a *Action) {
		if a.goFuncs == nil {
			a.goFuncs = make(map[string]lua.LGFunction)
		}
		a.goFuncs[name] = fn
	}
}

// Load compiles a Lua chunk into an action. The name becomes the
// description unless the chunk sets a description global.
func Load(name, source string, opts ...Option) (*Action, error) {
	a := &Action{
		id:          uuid.NewString(),
		description: name,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	for fname, fn := range a.goFuncs {
		L.SetGlobal(fname, L.NewFunction(fn))
	}

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading script %s: %w", name, err)
	}

	execFn, ok := L.GetGlobal("execute").(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("script %s: %w", name, ErrMissingExecute)
	}
	undoFn, ok := L.GetGlobal("undo").(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("script %s: %w", name, ErrMissingUndo)
	}

	if desc, ok := L.GetGlobal("description").(lua.LString); ok {
		a.description = string(desc)
	}

	a.state = L
	a.execute = execFn
	a.undo = undoFn
	return a, nil
}

// LoadFile compiles a Lua file into an action. The file's base name
// (without extension) is used as the default description.
func LoadFile(path string, opts ...Option) (*Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Load(name, string(data), opts...)
}

// openSafeLibraries opens only Lua standard libraries that cannot reach
// the file system or the process.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// ID returns the action identifier.
func (a *Action) ID() string { return a.id }

// Description returns the script's description.
func (a *Action) Description() string { return a.description }

// Execute calls the chunk's execute function.
func (a *Action) Execute(ctx context.Context) error {
	return a.call(ctx, a.execute)
}

// Undo calls the chunk's undo function.
func (a *Action) Undo(ctx context.Context) error {
	return a.call(ctx, a.undo)
}

func (a *Action) call(ctx context.Context, fn *lua.LFunction) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	a.state.SetContext(callCtx)
	defer a.state.RemoveContext()

	return a.doWithRecovery(func() error {
		return a.state.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		})
	})
}

func (a *Action) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Global returns a chunk global, mainly for inspecting script state.
func (a *Action) Global(name string) lua.LValue {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return lua.LNil
	}
	return a.state.GetGlobal(name)
}

// Close releases the Lua state. Further calls return ErrClosed.
// Safe to call multiple times.
func (a *Action) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.closed = true
	a.state.Close()
}
