package exporters

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/hsv-inspector/internal/events"
	"github.com/smazurov/hsv-inspector/internal/metrics"
)

type mockEventBus struct {
	mu        sync.Mutex
	events    []events.Event
	published chan struct{}
}

func newMockEventBus() *mockEventBus {
	return &mockEventBus{
		events:    make([]events.Event, 0),
		published: make(chan struct{}, 100),
	}
}

func (m *mockEventBus) Publish(ev events.Event) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	select {
	case m.published <- struct{}{}:
	default:
	}
}

func (m *mockEventBus) getEvents() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]events.Event, len(m.events))
	copy(result, m.events)
	return result
}

func TestSSEExporterPublishesStats(t *testing.T) {
	metrics.ResetLoopStats()
	metrics.RecordCycle(5*time.Millisecond, 0.125)

	mock := newMockEventBus()
	exporter := NewSSEExporter(mock)
	exporter.interval = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	exporter.Start(ctx)

	select {
	case <-mock.published:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for stats publish")
	}

	cancel()
	exporter.Stop()

	evts := mock.getEvents()
	if len(evts) == 0 {
		t.Fatal("expected at least one event")
	}

	stats, ok := evts[0].(events.FrameStatsEvent)
	if !ok {
		t.Fatalf("expected FrameStatsEvent, got %T", evts[0])
	}
	if stats.Frames != 1 {
		t.Errorf("Frames = %d, want 1", stats.Frames)
	}
	if stats.Coverage != "0.1250" {
		t.Errorf("Coverage = %q, want 0.1250", stats.Coverage)
	}
	if stats.CycleMs != "5.00" {
		t.Errorf("CycleMs = %q, want 5.00", stats.CycleMs)
	}
}

func TestSSEExporterComputesFPS(t *testing.T) {
	metrics.ResetLoopStats()

	mock := newMockEventBus()
	exporter := NewSSEExporter(mock)
	exporter.lastAt = time.Unix(100, 0)
	exporter.lastFrames = 0

	for range 30 {
		metrics.RecordCycle(time.Millisecond, 1)
	}
	exporter.publishStats(time.Unix(101, 0))

	stats := mock.getEvents()[0].(events.FrameStatsEvent)
	if stats.FPS != "30.00" {
		t.Errorf("FPS = %q, want 30.00", stats.FPS)
	}
}

func TestSSEExporterStopWithoutStart(_ *testing.T) {
	exporter := NewSSEExporter(newMockEventBus())
	exporter.Stop()
}

func TestGetEventTypes(t *testing.T) {
	types := GetEventTypes()
	if _, ok := types["frame-stats"]; !ok {
		t.Error("expected frame-stats event type")
	}
}
