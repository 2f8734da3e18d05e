package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/hsv-inspector/internal/api/models"
	"github.com/smazurov/hsv-inspector/internal/display"
)

func (s *Server) registerControlRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-controls",
		Method:      http.MethodGet,
		Path:        "/api/controls",
		Summary:     "List controls",
		Tags:        []string{"controls"},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.ControlListResponse, error) {
		return &models.ControlListResponse{Body: models.ControlListData{
			Controls: toControlData(s.board.Controls()),
		}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-control",
		Method:      http.MethodGet,
		Path:        "/api/controls/{name}",
		Summary:     "Get control",
		Tags:        []string{"controls"},
		Security:    withAuth(),
		Errors:      []int{404},
	}, func(ctx context.Context, input *models.ControlNameInput) (*models.ControlResponse, error) {
		st, ok := s.board.Control(input.Name)
		if !ok {
			return nil, huma.Error404NotFound("control not found: " + input.Name)
		}
		return &models.ControlResponse{Body: controlData(st)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-control",
		Method:      http.MethodPut,
		Path:        "/api/controls/{name}",
		Summary:     "Set control",
		Description: "Sets a control value. Values outside the control's range are clamped.",
		Tags:        []string{"controls"},
		Security:    withAuth(),
		Errors:      []int{404},
	}, func(ctx context.Context, input *models.SetControlRequest) (*models.ControlResponse, error) {
		st, err := s.board.SetControl(input.Name, input.Body.Value, "api")
		if errors.Is(err, display.ErrUnknownControl) {
			return nil, huma.Error404NotFound("control not found: " + input.Name)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to set control", err)
		}
		return &models.ControlResponse{Body: controlData(st)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "reset-controls",
		Method:      http.MethodPost,
		Path:        "/api/controls/reset",
		Summary:     "Reset controls",
		Description: "Restores every control to its initial value.",
		Tags:        []string{"controls"},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.ControlListResponse, error) {
		return &models.ControlListResponse{Body: models.ControlListData{
			Controls: toControlData(s.board.ResetControls("reset")),
		}}, nil
	})
}

func controlData(st display.ControlState) models.ControlData {
	return models.ControlData{
		Name:    st.Name,
		Label:   st.Label,
		Min:     st.Min,
		Max:     st.Max,
		Default: st.Default,
		Value:   st.Value,
	}
}

func toControlData(states []display.ControlState) []models.ControlData {
	out := make([]models.ControlData, len(states))
	for i, st := range states {
		out[i] = controlData(st)
	}
	return out
}
