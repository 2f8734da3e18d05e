package events

import (
	"sync"
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan ControlChangedEvent, 1)

	unsub := bus.Subscribe(func(e ControlChangedEvent) {
		received <- e
	})
	defer unsub()

	bus.Publish(ControlChangedEvent{Name: "hue-min", Value: 20, Source: "api"})

	select {
	case got := <-received:
		if got.Name != "hue-min" || got.Value != 20 {
			t.Errorf("got %+v, want hue-min=20", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan LoopStateEvent, 1)

	unsub := bus.Subscribe(func(e LoopStateEvent) {
		received <- e
	})

	bus.Publish(LoopStateEvent{State: "running"})
	<-received

	unsub()

	bus.Publish(LoopStateEvent{State: "terminated"})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	statsReceived := make(chan bool, 1)
	controlReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ FrameStatsEvent) { statsReceived <- true })
	defer unsub1()
	unsub2 := bus.Subscribe(func(_ ControlChangedEvent) { controlReceived <- true })
	defer unsub2()

	bus.Publish(FrameStatsEvent{Frames: 1})
	<-statsReceived

	select {
	case <-controlReceived:
		t.Fatal("Control subscriber should NOT have received FrameStatsEvent")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_ThreadSafety(_ *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	numGoroutines := 10
	eventsPerGoroutine := 100
	expected := numGoroutines * eventsPerGoroutine

	receivedCh := make(chan bool, expected)
	unsub := bus.Subscribe(func(_ LogEntryEvent) { receivedCh <- true })
	defer unsub()

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range eventsPerGoroutine {
				bus.Publish(LogEntryEvent{Level: "info", Message: "tick"})
			}
		}()
	}
	wg.Wait()

	for range expected {
		<-receivedCh
	}
}

func TestBus_NilPublishIsNoop(_ *testing.T) {
	var bus *Bus
	bus.Publish(LoopStateEvent{State: "running"})
}

func TestBus_UnknownHandler(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(string) {})
	if unsub == nil {
		t.Fatal("expected non-nil unsubscribe for unknown handler type")
	}
	unsub()
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 10)

	unsub := SubscribeToChannel[PresetReloadedEvent](bus, ch)
	defer unsub()

	bus.Publish(PresetReloadedEvent{Path: "controls.toml", Applied: 2})

	received := <-ch
	ev, ok := received.(PresetReloadedEvent)
	if !ok {
		t.Fatalf("Expected PresetReloadedEvent, got %T", received)
	}
	if ev.Applied != 2 {
		t.Errorf("Applied = %d, want 2", ev.Applied)
	}
}

func TestSubscribeToChannel_NonBlocking(_ *testing.T) {
	bus := New()
	ch := make(chan any) // No buffer

	unsub := SubscribeToChannel[ControlChangedEvent](bus, ch)
	defer unsub()

	done := make(chan bool, 1)
	go func() {
		bus.Publish(ControlChangedEvent{Name: "vadd"})
		done <- true
	}()

	<-done
}
