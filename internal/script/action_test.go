package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/historian/internal/history"
)

const counterScript = `
description = "bump counter"

function execute()
    counter = (counter or 0) + 1
end

function undo()
    counter = counter - 1
end
`

func TestLoadAndCall(t *testing.T) {
	act, err := Load("counter", counterScript)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer act.Close()

	if act.Description() != "bump counter" {
		t.Errorf("Description = %q, want the script's description global", act.Description())
	}
	if act.ID() == "" {
		t.Error("ID should be generated")
	}

	ctx := context.Background()
	if err := act.Execute(ctx); err != nil {
		t.Fatal(err)
	}
	if err := act.Execute(ctx); err != nil {
		t.Fatal(err)
	}
	if err := act.Undo(ctx); err != nil {
		t.Fatal(err)
	}

	if got := act.Global("counter"); got != lua.LNumber(1) {
		t.Errorf("counter = %v, want 1", got)
	}
}

func TestLoadMissingFunctions(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr error
	}{
		{"no execute", `function undo() end`, ErrMissingExecute},
		{"no undo", `function execute() end`, ErrMissingUndo},
		{"execute not a function", `execute = 1
function undo() end`, ErrMissingExecute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.name, tt.source)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	if _, err := Load("bad", `function execute(`); err == nil {
		t.Error("syntax error should fail Load")
	}
}

func TestScriptErrorsPropagate(t *testing.T) {
	act, err := Load("failing", `
function execute()
    error("execute blew up")
end
function undo() end
`)
	if err != nil {
		t.Fatal(err)
	}
	defer act.Close()

	if err := act.Execute(context.Background()); err == nil {
		t.Error("Lua error should propagate from Execute")
	}
}

func TestWithGoFunc(t *testing.T) {
	var calls []string
	act, err := Load("recorded", `
function execute() record("do") end
function undo() record("undo") end
`, WithGoFunc("record", func(L *lua.LState) int {
		calls = append(calls, L.ToString(1))
		return 0
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer act.Close()

	ctx := context.Background()
	if err := act.Execute(ctx); err != nil {
		t.Fatal(err)
	}
	if err := act.Undo(ctx); err != nil {
		t.Fatal(err)
	}

	if len(calls) != 2 || calls[0] != "do" || calls[1] != "undo" {
		t.Errorf("calls = %v, want [do undo]", calls)
	}
}

func TestSandboxBlocksOS(t *testing.T) {
	act, err := Load("sandbox", `
function execute()
    os.execute("true")
end
function undo() end
`)
	if err != nil {
		t.Fatal(err)
	}
	defer act.Close()

	if err := act.Execute(context.Background()); err == nil {
		t.Error("os library must not be available to scripts")
	}
}

func TestTimeout(t *testing.T) {
	act, err := Load("spin", `
function execute()
    while true do end
end
function undo() end
`, WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer act.Close()

	start := time.Now()
	if err := act.Execute(context.Background()); err == nil {
		t.Error("runaway script should be cancelled")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancellation took far longer than the timeout")
	}
}

func TestClosedAction(t *testing.T) {
	act, err := Load("closed", counterScript)
	if err != nil {
		t.Fatal(err)
	}
	act.Close()
	act.Close() // idempotent

	if err := act.Execute(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
	if got := act.Global("counter"); got != lua.LNil {
		t.Errorf("Global on closed action = %v, want nil", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bump.lua")
	src := `
function execute() end
function undo() end
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	act, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer act.Close()

	if act.Description() != "bump" {
		t.Errorf("Description = %q, want file base name", act.Description())
	}

	if _, err := LoadFile(filepath.Join(dir, "absent.lua")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestScriptedActionThroughManager(t *testing.T) {
	act, err := Load("counter", counterScript)
	if err != nil {
		t.Fatal(err)
	}
	defer act.Close()

	mgr := history.New()
	ctx := context.Background()

	if err := mgr.Execute(ctx, act); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Undo(ctx); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Redo(ctx); err != nil {
		t.Fatal(err)
	}

	// execute twice (initial + redo), undo once
	if got := act.Global("counter"); got != lua.LNumber(1) {
		t.Errorf("counter = %v, want 1", got)
	}
}
