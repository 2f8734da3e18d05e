// Package api serves the local HTTP viewer: control and view endpoints, SSE
// streams and the embedded viewer page.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/smazurov/hsv-inspector/internal/api/models"
	"github.com/smazurov/hsv-inspector/internal/display"
	"github.com/smazurov/hsv-inspector/internal/events"
	"github.com/smazurov/hsv-inspector/internal/logging"
	"github.com/smazurov/hsv-inspector/internal/version"
	"github.com/smazurov/hsv-inspector/ui"
)

// LoopStater reports the inspection loop state for the health endpoint.
type LoopStater interface {
	State() string
}

// Options configures the server.
type Options struct {
	Board             *display.Board
	EventBus          *events.Bus
	Loop              LoopStater
	PrometheusHandler http.Handler

	// Basic auth is enabled when both are set.
	AuthUsername string
	AuthPassword string
}

// Server is the huma API bound to a net/http ServeMux.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	mu         sync.Mutex
	httpServer *http.Server
	stopped    bool
	board      *display.Board
	eventBus   *events.Bus
	options    *Options
	logger     *slog.Logger
}

// NewServer registers every route on a fresh mux.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	config := huma.DefaultConfig("HSV Inspector API", version.String())
	config.Info.Description = "Live controls and views of the HSV inspection loop"
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {Type: "http", Scheme: "basic"},
	}

	s := &Server{
		api:      humago.New(mux, config),
		mux:      mux,
		board:    opts.Board,
		eventBus: opts.EventBus,
		options:  opts,
		logger:   logging.GetLogger("api"),
	}

	s.api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		s.api.UseMiddleware(s.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	s.registerRoutes()
	mux.Handle("GET /{$}", ui.Handler())
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// API returns the huma API.
func (s *Server) API() huma.API {
	return s.api
}

// Start listens on addr and blocks until the server stops.
// It returns nil after Stop.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("Starting HTTP viewer", "addr", addr, "docs", "http://"+addr+"/docs")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes the listener and all open streams.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info("Stopping HTTP viewer")

	// SSE and MJPEG responses never finish on their own, so Shutdown is bounded and followed by Close.
	if err := srv.Shutdown(ctx); err != nil {
		return srv.Close()
	}
	return nil
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(ctx context.Context, _ *struct{}) (*models.HealthResponse, error) {
		state := "unknown"
		if s.options.Loop != nil {
			state = s.options.Loop.State()
		}
		return &models.HealthResponse{Body: models.HealthData{
			Status:  "ok",
			Message: "API is healthy",
			Loop:    state,
		}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(ctx context.Context, _ *struct{}) (*models.VersionResponse, error) {
		info := version.Get()
		return &models.VersionResponse{Body: models.VersionData{
			Version:   info.Version,
			GitCommit: info.GitCommit,
			BuildDate: info.BuildDate,
			GoVersion: info.GoVersion,
			Platform:  info.Platform,
		}}, nil
	})

	s.registerControlRoutes()
	s.registerViewRoutes()
	s.registerSSERoutes()
	s.registerLogRoutes()
}

func withAuth() []map[string][]string {
	return []map[string][]string{{"basicAuth": {}}}
}

// basicAuthMiddleware checks credentials on operations that declare a security
// requirement. EventSource cannot send headers, so ?auth=<base64 user:pass> is accepted too.
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	const realm = `Basic realm="hsv-inspector"`

	return func(ctx huma.Context, next func(huma.Context)) {
		if op := ctx.Operation(); op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		encoded := ctx.Query("auth")
		if h := ctx.Header("Authorization"); h != "" {
			var ok bool
			if encoded, ok = strings.CutPrefix(h, "Basic "); !ok {
				ctx.SetHeader("WWW-Authenticate", realm)
				_ = huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid authentication type")
				return
			}
		}

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		user, pass, found := strings.Cut(string(decoded), ":")
		if encoded == "" || err != nil || !found ||
			subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(password)) != 1 {
			ctx.SetHeader("WWW-Authenticate", realm)
			_ = huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Authentication required")
			return
		}

		next(ctx)
	}
}
