package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/hsv-inspector/internal/api/models"
	"github.com/smazurov/hsv-inspector/internal/events"
	"github.com/smazurov/hsv-inspector/internal/logging"
)

const logReplay = 200

func (s *Server) registerLogRoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "logs-stream",
		Method:      http.MethodGet,
		Path:        "/api/logs/stream",
		Summary:     "Log stream",
		Description: "Replays recent log entries, then streams new ones.",
		Tags:        []string{"logs"},
		Security:    withAuth(),
	}, map[string]any{
		"message": events.LogEntryEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		// Subscribe before replaying so nothing logged in between is lost.
		ch := make(chan any, 100)
		unsubscribe := events.SubscribeToChannel[events.LogEntryEvent](s.eventBus, ch)
		defer unsubscribe()

		for _, entry := range logging.History().Last(logReplay) {
			if err := send.Data(events.FromLogEntry(entry)); err != nil {
				return
			}
		}

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

	huma.Register(s.api, huma.Operation{
		OperationID: "set-log-level",
		Method:      http.MethodPut,
		Path:        "/api/logs/levels/{module}",
		Summary:     "Set module log level",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{400},
	}, func(ctx context.Context, input *models.LogLevelRequest) (*models.LogLevelResponse, error) {
		if err := logging.SetModuleLevel(input.Module, input.Body.Level); err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		resp := &models.LogLevelResponse{}
		resp.Body.Module = input.Module
		resp.Body.Level = input.Body.Level
		return resp, nil
	})
}
