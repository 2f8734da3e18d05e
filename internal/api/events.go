package api

import (
	"context"
	"maps"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/hsv-inspector/internal/events"
	"github.com/smazurov/hsv-inspector/internal/metrics/exporters"
)

func (s *Server) registerSSERoutes() {
	eventTypes := map[string]any{
		"control-changed": events.ControlChangedEvent{},
		"loop-state":      events.LoopStateEvent{},
		"preset-reloaded": events.PresetReloadedEvent{},
	}
	maps.Copy(eventTypes, exporters.GetEventTypes())

	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Event stream",
		Description: "Control changes, loop state, preset reloads and once-per-second frame statistics.",
		Tags:        []string{"events"},
		Security:    withAuth(),
	}, eventTypes, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		ch := make(chan any, 32)
		unsubscribers := []func(){
			events.SubscribeToChannel[events.ControlChangedEvent](s.eventBus, ch),
			events.SubscribeToChannel[events.LoopStateEvent](s.eventBus, ch),
			events.SubscribeToChannel[events.PresetReloadedEvent](s.eventBus, ch),
			events.SubscribeToChannel[events.FrameStatsEvent](s.eventBus, ch),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-ch:
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}
