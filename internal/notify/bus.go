// Package notify generalizes the teacher's core.ModuleManager hook and
// debug-event system: instead of dispatching typed hooks to registered
// modules, it fans out session telemetry (the store emits "scored"
// and "import_detected") to whatever Sinks are attached, and best-effort persists the same
// events to the store's events table for later inspection.
package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Event is one unit of session telemetry. Kind is a short tag such as
// "scored" or "import_detected"; Payload is free-form JSON-ish text the
// emitting component already formatted — the bus never parses it.
type Event struct {
	ID        string
	SessionID string
	Kind      string
	Payload   string
}

// Sink receives every event recorded on a Bus. The store attaches its
// own sqlEventSink to persist events; the CLI attaches ConsoleSink for
// human-readable --debug output. A Sink that only cares about one kind
// should ignore the rest.
type Sink interface {
	Notify(Event)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Notify(e Event) { f(e) }

// Bus fans a stream of events out to every attached Sink. It does not
// buffer or retry; a failing Sink is the Sink's own problem.
type Bus struct {
	mu    sync.Mutex
	sinks []Sink
}

// NewBus returns an empty bus.
func NewBus() *Bus { return &Bus{} }

// Attach registers a Sink to receive all future events.
func (b *Bus) Attach(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Record builds an Event with a fresh ID and fans it out synchronously.
func (b *Bus) Record(sessionID, kind, payload string) {
	ev := Event{ID: uuid.NewString(), SessionID: sessionID, Kind: kind, Payload: payload}
	b.mu.Lock()
	sinks := append([]Sink(nil), b.sinks...)
	b.mu.Unlock()
	for _, s := range sinks {
		s.Notify(ev)
	}
}
