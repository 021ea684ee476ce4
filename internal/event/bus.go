package event

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/historian/internal/history"
)

// Stats contains bus delivery counters.
type Stats struct {
	// Published is the total number of events published.
	Published uint64

	// Delivered is the total number of handler deliveries.
	Delivered uint64
}

// Subscription identifies a registered handler.
type Subscription struct {
	id uint64
}

type registration struct {
	handler Handler
	kinds   map[Kind]bool // nil means all kinds
}

// Bus fans events out to subscribed handlers.
//
// Delivery is synchronous in the publisher's goroutine, which for
// engine hooks means the goroutine running the manager call. Handlers
// that need to do slow work should hand off to their own goroutine.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]registration

	published atomic.Uint64
	delivered atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[uint64]registration),
	}
}

// Subscribe registers a handler for the given kinds.
// With no kinds, the handler receives every event.
func (b *Bus) Subscribe(h Handler, kinds ...Kind) Subscription {
	var filter map[Kind]bool
	if len(kinds) > 0 {
		filter = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			filter[k] = true
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[b.nextID] = registration{handler: h, kinds: filter}
	return Subscription{id: b.nextID}
}

// SubscribeFunc registers a function handler for the given kinds.
func (b *Bus) SubscribeFunc(fn HandlerFunc, kinds ...Kind) Subscription {
	return b.Subscribe(fn, kinds...)
}

// Unsubscribe removes a subscription. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, sub.id)
}

// Publish delivers an event to all matching handlers.
func (b *Bus) Publish(e Event) {
	b.published.Add(1)

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, reg := range b.subs {
		if reg.kinds == nil || reg.kinds[e.Kind] {
			handlers = append(handlers, reg.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h.Handle(e)
		b.delivered.Add(1)
	}
}

// Stats returns delivery counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Delivered: b.delivered.Load(),
	}
}

// Hooks returns the three callbacks a history.Manager expects, wired to
// publish on this bus.
func (b *Bus) Hooks() (onExecute, onUndo, onRedo func(*history.Entry)) {
	onExecute = func(e *history.Entry) { b.Publish(fromEntry(KindExecute, e)) }
	onUndo = func(e *history.Entry) { b.Publish(fromEntry(KindUndo, e)) }
	onRedo = func(e *history.Entry) { b.Publish(fromEntry(KindRedo, e)) }
	return onExecute, onUndo, onRedo
}
