package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/historian/internal/config"
	"github.com/dshills/historian/internal/event"
	"github.com/dshills/historian/internal/history"
	"github.com/dshills/historian/internal/jsondoc"
	"github.com/dshills/historian/internal/script"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	tailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	feedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const feedMax = 50

// feed collects event lines published by the bus, which delivers on
// the engine caller's goroutine.
type feed struct {
	mu    sync.Mutex
	lines []string
}

func (f *feed) add(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, line)
	if len(f.lines) > feedMax {
		f.lines = f.lines[len(f.lines)-feedMax:]
	}
}

func (f *feed) tail(n int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.lines) > n {
		return append([]string(nil), f.lines[len(f.lines)-n:]...)
	}
	return append([]string(nil), f.lines...)
}

// configReloadedMsg carries a freshly loaded configuration from the
// watcher goroutine into the update loop.
type configReloadedMsg struct {
	cfg config.Config
}

type model struct {
	cfg  config.Config
	mgr  *history.Manager
	doc  *jsondoc.Document
	bus  *event.Bus
	feed *feed

	input  textinput.Model
	status string
	width  int
	height int
}

func newModel(cfg config.Config, mgr *history.Manager, doc *jsondoc.Document, bus *event.Bus) *model {
	ti := textinput.New()
	ti.Placeholder = "set meta.draft false"
	ti.Prompt = "> "
	ti.Focus()

	m := &model{
		cfg:   cfg,
		mgr:   mgr,
		doc:   doc,
		bus:   bus,
		feed:  &feed{},
		input: ti,
	}

	bus.SubscribeFunc(func(e event.Event) {
		line := fmt.Sprintf("[%s] %s", e.Kind, e.Description)
		if cfg.UI.ShowTimestamps {
			line += " @ " + e.Timestamp.Format("15:04:05")
		}
		m.feed.add(line)
	})

	return m
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case configReloadedMsg:
		m.cfg = msg.cfg
		m.mgr.SetMaxSize(msg.cfg.History.MaxSize)
		m.feed.add(fmt.Sprintf("config reloaded: max_size=%d", msg.cfg.History.MaxSize))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			if line == "quit" || line == "q" {
				return m, tea.Quit
			}
			m.status = m.runCommand(line)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) runCommand(line string) string {
	fields := strings.Fields(line)
	ctx := context.Background()

	switch fields[0] {
	case "set":
		if len(fields) < 3 {
			return "usage: set <path> <value>"
		}
		value := parseValue(strings.Join(fields[2:], " "))
		if err := m.mgr.Execute(ctx, jsondoc.Set(m.doc, fields[1], value)); err != nil {
			return "set failed: " + err.Error()
		}
		return "set " + fields[1]

	case "del":
		if len(fields) != 2 {
			return "usage: del <path>"
		}
		if err := m.mgr.Execute(ctx, jsondoc.Delete(m.doc, fields[1])); err != nil {
			return "del failed: " + err.Error()
		}
		return "deleted " + fields[1]

	case "lua":
		if len(fields) != 2 {
			return "usage: lua <file>"
		}
		act, err := m.loadScript(fields[1])
		if err != nil {
			return "lua failed: " + err.Error()
		}
		if err := m.mgr.Execute(ctx, act); err != nil {
			return "lua failed: " + err.Error()
		}
		return "ran " + act.Description()

	case "undo":
		if !m.mgr.CanUndo() {
			return "nothing to undo"
		}
		if err := m.mgr.Undo(ctx); err != nil {
			return "undo failed: " + err.Error()
		}
		return "undone"

	case "redo":
		if !m.mgr.CanRedo() {
			return "nothing to redo"
		}
		if err := m.mgr.Redo(ctx); err != nil {
			return "redo failed: " + err.Error()
		}
		return "redone"

	case "clear":
		m.mgr.Clear()
		return "history cleared"

	case "help":
		return "commands: set del lua undo redo clear quit"

	default:
		return "unknown command: " + fields[0]
	}
}

func (m *model) loadScript(name string) (*script.Action, error) {
	opts := []script.Option{script.WithTimeout(m.cfg.Script.Timeout.Std())}
	act, err := script.LoadFile(name, opts...)
	if err == nil || m.cfg.Script.Dir == "" {
		return act, err
	}
	return script.LoadFile(filepath.Join(m.cfg.Script.Dir, name), opts...)
}

// parseValue interprets the input as a JSON literal when possible and
// falls back to a plain string.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("historian — reversible action playground"))
	b.WriteString("\n\n")

	docPane := paneStyle.Render(m.doc.Pretty())
	histPane := paneStyle.Render(m.historyView())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, docPane, " ", histPane))
	b.WriteString("\n")

	for _, line := range m.feed.tail(5) {
		b.WriteString(feedStyle.Render(line))
		b.WriteString("\n")
	}

	if m.status != "" {
		if strings.Contains(m.status, "failed") {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(m.status)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("set <path> <value> · del <path> · lua <file> · undo · redo · clear · q"))
	return b.String()
}

func (m *model) historyView() string {
	undo := m.mgr.UndoList()
	redo := m.mgr.RedoList()

	if len(undo) == 0 && len(redo) == 0 {
		return "history empty"
	}

	var lines []string
	for i, info := range undo {
		label := info.Description
		if m.cfg.UI.ShowTimestamps {
			label += " " + info.Timestamp.Format("15:04:05")
		}
		if i == len(undo)-1 {
			lines = append(lines, cursorStyle.Render("> "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	for _, info := range redo {
		lines = append(lines, tailStyle.Render("  "+info.Description))
	}
	return strings.Join(lines, "\n")
}
