// Package app wires the segment, controls, display surfaces, HTTP viewer and
// inspection loop together for the root command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/smazurov/hsv-inspector/internal/api"
	"github.com/smazurov/hsv-inspector/internal/colorspace"
	"github.com/smazurov/hsv-inspector/internal/config"
	"github.com/smazurov/hsv-inspector/internal/controls"
	"github.com/smazurov/hsv-inspector/internal/display"
	"github.com/smazurov/hsv-inspector/internal/events"
	"github.com/smazurov/hsv-inspector/internal/inspector"
	"github.com/smazurov/hsv-inspector/internal/logging"
	"github.com/smazurov/hsv-inspector/internal/metrics/exporters"
	"github.com/smazurov/hsv-inspector/internal/shm"
)

// Display surfaces.
const (
	DisplayWeb  = "web"
	DisplayGoCV = "gocv"
	DisplayNone = "none"
)

const shutdownTimeout = 2 * time.Second

// Segment is an attached frame source.
type Segment interface {
	inspector.Source
	Close() error
}

// Attacher opens the named segment.
type Attacher func(name string, width, height int) (Segment, error)

// AttachShm attaches a shared memory segment read-only.
func AttachShm(name string, width, height int) (Segment, error) {
	seg, err := shm.Attach(name, width, height)
	if err != nil {
		return nil, err
	}
	return seg, nil
}

// Options configures Run.
type Options struct {
	Name   string
	Width  int
	Height int

	Display      string
	Listen       string
	PollInterval time.Duration
	ControlsFile string
	ClipMode     colorspace.ClipMode
	ShowRaw      bool

	AuthUsername string
	AuthPassword string

	// Attach defaults to AttachShm.
	Attach Attacher
}

// Validate checks the arguments that must be present before anything is attached.
func (o *Options) Validate() error {
	var missing []string
	if o.Name == "" {
		missing = append(missing, "--name")
	}
	if o.Width <= 0 {
		missing = append(missing, "--width")
	}
	if o.Height <= 0 {
		missing = append(missing, "--height")
	}
	if len(missing) > 0 {
		return NewArgumentsError(ErrCodeMissingArguments, "required: "+strings.Join(missing, ", "), nil)
	}

	switch o.Display {
	case "", DisplayWeb, DisplayGoCV, DisplayNone:
	default:
		return NewArgumentsError(ErrCodeInvalidArgument,
			fmt.Sprintf("unknown display %q (want web, gocv or none)", o.Display), nil)
	}
	if o.Display == DisplayGoCV && !display.Native {
		return NewArgumentsError(ErrCodeInvalidArgument, "gocv display unavailable", display.ErrNoNativeWindow)
	}
	if o.PollInterval < 0 {
		return NewArgumentsError(ErrCodeInvalidArgument, "poll interval must not be negative", nil)
	}
	return nil
}

// Run attaches the segment and drives the inspection loop until ctx is cancelled
// or frame acquisition fails.
func Run(ctx context.Context, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts.Display == "" {
		opts.Display = DisplayWeb
	}
	attach := opts.Attach
	if attach == nil {
		attach = AttachShm
	}
	logger := logging.GetLogger("main")

	seg, err := attach(opts.Name, opts.Width, opts.Height)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := seg.Close(); closeErr != nil {
			logger.Warn("Failed to detach segment", "error", closeErr)
		}
	}()
	logger.Info("Attached segment", "name", opts.Name, "width", opts.Width, "height", opts.Height)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := events.New()
	logging.SetLogCallback(func(entry logging.LogEntry) {
		bus.Publish(events.FromLogEntry(entry))
	})
	defer logging.SetLogCallback(nil)

	board := display.NewBoard()
	board.OnControlChange(func(st display.ControlState, source string) {
		bus.Publish(events.ControlChangedEvent{
			Name:      st.Name,
			Label:     st.Label,
			Value:     st.Value,
			Min:       st.Min,
			Max:       st.Max,
			Source:    source,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	})

	var ctl display.Controls = board
	var out display.Presenter = board
	if opts.Display == DisplayGoCV {
		win, winErr := display.NewWindow("HSV Inspector", 1)
		if winErr != nil {
			return winErr
		}
		defer win.Close()
		// The board keeps the values; trackbars follow it on the loop goroutine.
		ctl = display.Link(board, win)
		out = display.Tee(win, board)
	}
	panel := controls.Register(ctl)

	if opts.ControlsFile != "" {
		stop, presetErr := watchPreset(ctx, opts.ControlsFile, panel, bus, logger)
		if presetErr != nil {
			return presetErr
		}
		defer stop()
	}

	loop, err := inspector.New(seg, panel, out, bus, inspector.Options{
		Width:        opts.Width,
		Height:       opts.Height,
		PollInterval: opts.PollInterval,
		ShowRaw:      opts.ShowRaw,
		ClipMode:     opts.ClipMode,
	})
	if err != nil {
		return err
	}

	statsExporter := exporters.NewSSEExporter(bus)
	statsExporter.Start(ctx)
	defer statsExporter.Stop()

	serveErr := make(chan error, 1)
	if opts.Display != DisplayNone && opts.Listen != "" {
		server := api.NewServer(&api.Options{
			Board:             board,
			EventBus:          bus,
			Loop:              loopState{loop},
			PrometheusHandler: exporters.HTTPHandler(),
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
		})
		go func() {
			if startErr := server.Start(opts.Listen); startErr != nil {
				logger.Error("HTTP viewer failed", "addr", opts.Listen, "error", startErr)
				serveErr <- fmt.Errorf("http viewer on %s: %w", opts.Listen, startErr)
				cancel()
			}
		}()
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stopCancel()
			if stopErr := server.Stop(stopCtx); stopErr != nil {
				logger.Warn("Error stopping HTTP viewer", "error", stopErr)
			}
		}()
	}

	notify(logger, daemon.SdNotifyReady)
	err = loop.Run(ctx)
	notify(logger, daemon.SdNotifyStopping)
	select {
	case startErr := <-serveErr:
		return startErr
	default:
	}
	return err
}

// watchPreset applies the preset file and keeps applying it whenever it changes.
// A missing file is not an error; the watcher picks it up once it appears.
func watchPreset(ctx context.Context, path string, panel *controls.Panel, bus *events.Bus, logger *slog.Logger) (func(), error) {
	apply := func(pr controls.Preset) {
		n, err := panel.Apply(pr, "preset")
		if err != nil {
			logger.Warn("Failed to apply preset", "path", path, "error", err)
			return
		}
		logger.Info("Applied preset", "path", path, "controls", n)
		bus.Publish(events.PresetReloadedEvent{
			Path:      path,
			Applied:   n,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}

	pr, err := controls.LoadPreset(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("Preset file not found, using defaults", "path", path)
	case err != nil:
		return nil, NewArgumentsError(ErrCodeInvalidArgument, "bad preset "+path, err)
	default:
		apply(pr)
	}

	w := config.NewWatcher(path, controls.LoadPreset,
		config.WithErrorHandler[controls.Preset](func(err error) {
			logger.Warn("Ignoring preset change", "path", path, "error", err)
		}))
	w.OnReload(apply)
	if err := w.Start(ctx); err != nil {
		logger.Warn("Preset hot reload disabled", "path", path, "error", err)
		return func() {}, nil
	}
	return func() {
		if stopErr := w.Stop(); stopErr != nil {
			logger.Warn("Failed to stop preset watcher", "error", stopErr)
		}
	}, nil
}

func notify(logger *slog.Logger, state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logger.Debug("sd_notify failed", "state", state, "error", err)
		return
	}
	if sent {
		logger.Debug("Notified systemd", "state", state)
	}
}

type loopState struct {
	loop *inspector.Loop
}

func (s loopState) State() string { return s.loop.State().String() }
