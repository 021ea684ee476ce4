// Package main is the entry point for the historian demo.
//
// It wires every piece together: a jsondoc document edited through
// reversible actions, a history manager with an event bus observing it,
// TOML configuration with live reload, and optional Lua-scripted
// actions.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dshills/historian/internal/config"
	"github.com/dshills/historian/internal/event"
	"github.com/dshills/historian/internal/history"
	"github.com/dshills/historian/internal/jsondoc"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

const defaultDoc = `{"title":"untitled","tags":[],"meta":{"draft":true}}`

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("historian %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	raw := []byte(defaultDoc)
	if opts.docPath != "" {
		raw, err = os.ReadFile(opts.docPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading document: %v\n", err)
			return 1
		}
	}
	doc, err := jsondoc.New(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	bus := event.NewBus()
	onExec, onUndo, onRedo := bus.Hooks()
	mgr := history.New(
		history.WithMaxSize(cfg.History.MaxSize),
		history.WithOnExecute(onExec),
		history.WithOnUndo(onUndo),
		history.WithOnRedo(onRedo),
	)

	m := newModel(cfg, mgr, doc, bus)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Live-reload the timeline cap while the demo runs. The watcher runs
	// on its own goroutine, so the update goes through the program as a
	// message rather than touching the model directly.
	if opts.configPath != "" {
		w := config.Watch(opts.configPath, func(c config.Config) {
			p.Send(configReloadedMsg{cfg: c})
		})
		w.Start()
		defer w.Stop()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type options struct {
	configPath  string
	docPath     string
	showVersion bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to TOML configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to TOML configuration file (shorthand)")
	flag.StringVar(&opts.docPath, "doc", "", "Path to initial JSON document")
	flag.BoolVar(&opts.showVersion, "version", false, "Print version and exit")
	flag.Parse()
	return opts
}
