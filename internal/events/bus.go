// Package events provides the in-process event bus used to fan out control changes,
// loop statistics and log entries to SSE clients.
package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// A nil bus drops the event so optional wiring stays simple.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	switch e := ev.(type) {
	case ControlChangedEvent:
		event.Publish(b.dispatcher, e)
	case FrameStatsEvent:
		event.Publish(b.dispatcher, e)
	case LoopStateEvent:
		event.Publish(b.dispatcher, e)
	case PresetReloadedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function.
// The handler's parameter type selects the event; unknown handler types get a no-op unsubscribe.
// Usage: unsub := bus.Subscribe(func(e ControlChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(ControlChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(FrameStatsEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LoopStateEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PresetReloadedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
