package exporters

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/smazurov/hsv-inspector/internal/events"
	"github.com/smazurov/hsv-inspector/internal/metrics"
)

// EventPublisher interface for publishing events.
type EventPublisher interface {
	Publish(ev events.Event)
}

// SSEExporter periodically publishes loop statistics as FrameStatsEvent.
type SSEExporter struct {
	eventBus EventPublisher
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	lastFrames uint64
	lastAt     time.Time
}

// NewSSEExporter creates a new SSE exporter.
func NewSSEExporter(eventBus EventPublisher) *SSEExporter {
	return &SSEExporter{
		eventBus: eventBus,
		interval: 1 * time.Second,
	}
}

// Start begins the SSE export loop.
func (s *SSEExporter) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.lastFrames = metrics.GetLoopStats().Frames
	s.lastAt = time.Now()
	s.wg.Add(1)
	go s.run()
}

// Stop stops the SSE exporter and waits for the goroutine to finish.
func (s *SSEExporter) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *SSEExporter) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.publishStats(now)
		}
	}
}

func (s *SSEExporter) publishStats(now time.Time) {
	st := metrics.GetLoopStats()

	var fps float64
	if elapsed := now.Sub(s.lastAt).Seconds(); elapsed > 0 && st.Frames >= s.lastFrames {
		fps = float64(st.Frames-s.lastFrames) / elapsed
	}
	s.lastFrames = st.Frames
	s.lastAt = now

	s.eventBus.Publish(events.FrameStatsEvent{
		Frames:     st.Frames,
		FPS:        strconv.FormatFloat(fps, 'f', 2, 64),
		CycleMs:    strconv.FormatFloat(float64(st.LastCycle.Microseconds())/1000, 'f', 2, 64),
		LockHoldUs: strconv.FormatInt(st.LockHold.Microseconds(), 10),
		Coverage:   strconv.FormatFloat(st.Coverage, 'f', 4, 64),
		Timestamp:  now.UTC().Format(time.RFC3339),
	})
}

// GetEventTypes returns event types for SSE endpoint registration.
func GetEventTypes() map[string]any {
	return map[string]any{
		"frame-stats": events.FrameStatsEvent{},
	}
}
