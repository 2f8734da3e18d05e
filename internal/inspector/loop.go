// Package inspector drives the per-frame acquire, transform, mask and present cycle.
package inspector

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/smazurov/hsv-inspector/internal/colorspace"
	"github.com/smazurov/hsv-inspector/internal/controls"
	"github.com/smazurov/hsv-inspector/internal/display"
	"github.com/smazurov/hsv-inspector/internal/events"
	"github.com/smazurov/hsv-inspector/internal/frame"
	"github.com/smazurov/hsv-inspector/internal/logging"
	"github.com/smazurov/hsv-inspector/internal/metrics"
)

// DefaultPollInterval is the bounded wait between cycles.
const DefaultPollInterval = 10 * time.Millisecond

// State of the loop.
type State int32

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "running"
}

// Source exposes the raw bytes of the current frame for the duration of fn.
// pix must not be retained after fn returns.
type Source interface {
	WithFrame(fn func(pix []byte) error) error
}

// Options configures a Loop.
type Options struct {
	Width        int
	Height       int
	PollInterval time.Duration
	ShowRaw      bool
	ClipMode     colorspace.ClipMode
}

// Loop reads the controls, copies a frame and presents the derived views once per cycle.
type Loop struct {
	src    Source
	panel  *controls.Panel
	out    display.Presenter
	bus    *events.Bus
	opts   Options
	raw    *frame.Frame
	state  atomic.Int32
	logger *slog.Logger
}

// New creates a loop in the Running state. bus may be nil.
func New(src Source, panel *controls.Panel, out display.Presenter, bus *events.Bus, opts Options) (*Loop, error) {
	if _, err := frame.ByteSize(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	return &Loop{
		src:    src,
		panel:  panel,
		out:    out,
		bus:    bus,
		opts:   opts,
		raw:    frame.New(opts.Width, opts.Height),
		logger: logging.GetLogger("loop"),
	}, nil
}

// State returns the current state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Run cycles until ctx is cancelled or the frame source fails.
// Cancellation is checked once per cycle; a cycle in progress always completes.
// It returns nil on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("Inspection loop started",
		"width", l.opts.Width,
		"height", l.opts.Height,
		"poll_interval", l.opts.PollInterval,
		"clip_mode", l.opts.ClipMode.String())
	metrics.SetLoopRunning(true)
	l.publishState(Running, "")

	timer := time.NewTimer(l.opts.PollInterval)
	defer timer.Stop()

	for {
		if err := l.Step(); err != nil {
			l.terminate(err.Error())
			return err
		}

		timer.Reset(l.opts.PollInterval)
		select {
		case <-ctx.Done():
			l.terminate("cancelled")
			return nil
		case <-timer.C:
		}
	}
}

// Step runs a single cycle.
func (l *Loop) Step() error {
	start := time.Now()
	params := l.panel.Read()

	err := l.src.WithFrame(func(pix []byte) error {
		if len(pix) != len(l.raw.Pix) {
			return fmt.Errorf("frame is %d bytes, want %d", len(pix), len(l.raw.Pix))
		}
		copy(l.raw.Pix, pix)
		return nil
	})
	if err != nil {
		return fmt.Errorf("acquire frame: %w", err)
	}

	res := Process(l.raw, params, l.opts.ClipMode)

	l.present(display.ViewFiltered, res.Filtered)
	l.present(display.ViewMask, res.Mask.Gray())
	if l.opts.ShowRaw {
		l.present(display.ViewRawMasked, RawMasked(l.raw, res))
	}

	metrics.RecordCycle(time.Since(start), res.Coverage)
	return nil
}

func (l *Loop) present(label string, img image.Image) {
	if err := l.out.Present(label, img); err != nil {
		metrics.IncPresentErrors(display.Slug(label))
		l.logger.Warn("Failed to present view", "view", label, "error", err)
	}
}

func (l *Loop) terminate(reason string) {
	l.state.Store(int32(Terminated))
	metrics.SetLoopRunning(false)
	l.publishState(Terminated, reason)
	l.logger.Info("Inspection loop terminated", "reason", reason)
}

func (l *Loop) publishState(s State, reason string) {
	l.bus.Publish(events.LoopStateEvent{
		State:     s.String(),
		Reason:    reason,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
