package events

import "github.com/kelindar/event"

// SubscribeToChannel forwards events of type T into ch for select-based SSE handlers.
// Events are dropped when ch is full so a slow client never stalls the publisher.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
