package api

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/hsv-inspector/internal/api/models"
	"github.com/smazurov/hsv-inspector/internal/display"
)

const mjpegBoundary = "hsvframe"

func (s *Server) registerViewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-views",
		Method:      http.MethodGet,
		Path:        "/api/views",
		Summary:     "List views",
		Tags:        []string{"views"},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.ViewListResponse, error) {
		views := s.board.Views()
		out := make([]models.ViewData, len(views))
		for i, v := range views {
			out[i] = viewData(v)
		}
		return &models.ViewListResponse{Body: models.ViewListData{Views: out}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "view-snapshot",
		Method:      http.MethodGet,
		Path:        "/api/views/{name}/snapshot",
		Summary:     "View snapshot",
		Description: "Latest image of a view as PNG.",
		Tags:        []string{"views"},
		Security:    withAuth(),
		Errors:      []int{404},
	}, func(ctx context.Context, input *models.SnapshotRequest) (*models.SnapshotResponse, error) {
		v, err := s.board.View(input.Name)
		if errors.Is(err, display.ErrUnknownView) {
			return nil, huma.Error404NotFound("view not found: " + input.Name)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to read view", err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, v.Image); err != nil {
			return nil, huma.Error500InternalServerError("failed to encode snapshot", err)
		}
		return &models.SnapshotResponse{
			ContentType:  "image/png",
			CacheControl: "no-store",
			Body:         buf.Bytes(),
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "view-stream",
		Method:      http.MethodGet,
		Path:        "/api/views/{name}/stream",
		Summary:     "View stream",
		Description: "MJPEG (multipart/x-mixed-replace) stream of a view, throttled to the requested rate.",
		Tags:        []string{"views"},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.ViewStreamRequest) (*huma.StreamResponse, error) {
		if !s.board.HasView(input.Name) {
			return nil, huma.Error404NotFound("view not found: " + input.Name)
		}
		return &huma.StreamResponse{Body: func(hctx huma.Context) {
			s.streamView(hctx, input)
		}}, nil
	})
}

func (s *Server) streamView(hctx huma.Context, input *models.ViewStreamRequest) {
	ctx := hctx.Context()
	hctx.SetHeader("Content-Type", "multipart/x-mixed-replace; boundary="+mjpegBoundary)
	hctx.SetHeader("Cache-Control", "no-store")
	hctx.SetStatus(http.StatusOK)

	w := hctx.BodyWriter()
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(mjpegBoundary); err != nil {
		return
	}
	flusher, _ := w.(http.Flusher)

	fps := max(input.FPS, 1)
	interval := time.Second / time.Duration(fps)
	opts := &jpeg.Options{Quality: min(max(input.Quality, 1), 100)}

	var seq uint64
	var buf bytes.Buffer
	for {
		v, err := s.board.Wait(ctx, input.Name, seq)
		if err != nil {
			return
		}
		seq = v.Seq

		buf.Reset()
		if err := jpeg.Encode(&buf, v.Image, opts); err != nil {
			s.logger.Warn("Failed to encode MJPEG frame", "view", input.Name, "error", err)
			return
		}

		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":   {"image/jpeg"},
			"Content-Length": {strconv.Itoa(buf.Len())},
		})
		if err != nil {
			return
		}
		if _, err := part.Write(buf.Bytes()); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

func viewData(v display.ViewState) models.ViewData {
	d := models.ViewData{
		Name:    v.Name,
		Label:   v.Label,
		Seq:     v.Seq,
		Updated: v.Updated,
	}
	if v.Image != nil {
		b := v.Image.Bounds()
		d.Width, d.Height = b.Dx(), b.Dy()
	}
	return d
}
