package planner

import "sync"

// EventKind says what changed in a planner.
type EventKind int

const (
	EventActivityChanged EventKind = iota + 1
	EventOverridesChanged
	EventFlushSettled
	EventDayWiped
	EventRefreshed
)

func (k EventKind) String() string {
	switch k {
	case EventActivityChanged:
		return "activity-changed"
	case EventOverridesChanged:
		return "overrides-changed"
	case EventFlushSettled:
		return "flush-settled"
	case EventDayWiped:
		return "day-wiped"
	case EventRefreshed:
		return "refreshed"
	}
	return "unknown"
}

// Event is delivered to every listener of a Bus. Date is empty for
// planner-wide events; Active is only meaningful for EventActivityChanged.
type Event struct {
	Kind   EventKind
	Date   string
	Active bool
}

// Listener receives events.
type Listener func(Event)

type subscription struct {
	id       int
	listener Listener
}

// Bus delivers events synchronously, in subscription order, on the goroutine
// that published them. Listeners are never called with planner locks held.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers l and returns a function that removes it.
func (b *Bus) Subscribe(l Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, listener: l})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every listener with e.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.listener(e)
	}
}
