package config

import (
	"os"
	"sync"
	"time"
)

// Handler is called with the freshly loaded configuration after the
// watched file changes. Reloads that fail to parse are skipped; the
// last good configuration stays in effect.
type Handler func(Config)

// Watcher polls a configuration file's modification time and reloads
// it on change.
type Watcher struct {
	path     string
	interval time.Duration
	handler  Handler

	mu      sync.Mutex
	lastMod time.Time
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// Watch creates a watcher for path. Call Start to begin polling.
func Watch(path string, handler Handler, opts ...WatchOption) *Watcher {
	w := &Watcher{
		path:     path,
		interval: 500 * time.Millisecond,
		handler:  handler,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins polling in a background goroutine.
// Starting an already running watcher does nothing.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true
	w.stop = make(chan struct{})

	if info, err := os.Stat(w.path); err == nil {
		w.lastMod = info.ModTime()
	}

	w.wg.Add(1)
	go w.loop(w.stop)
}

// Stop halts polling and waits for the poll goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stop)
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Watcher) loop(stop <-chan struct{}) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	info, err := os.Stat(w.path)
	if err != nil {
		return
	}

	w.mu.Lock()
	changed := info.ModTime().After(w.lastMod)
	if changed {
		w.lastMod = info.ModTime()
	}
	w.mu.Unlock()

	if !changed {
		return
	}

	cfg, err := Load(w.path)
	if err != nil {
		return
	}
	if w.handler != nil {
		w.handler(cfg)
	}
}
