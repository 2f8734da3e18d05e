// Package testpattern is a frame producer for exercising the inspector without a camera.
// It creates a segment and repaints it at a fixed rate under the segment lock.
package testpattern

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smazurov/hsv-inspector/internal/colorspace"
	"github.com/smazurov/hsv-inspector/internal/frame"
	"github.com/smazurov/hsv-inspector/internal/logging"
	"github.com/smazurov/hsv-inspector/internal/shm"
)

// Pattern selects what is painted.
type Pattern string

const (
	// Bars paints eight vertical colour bars.
	Bars Pattern = "bars"
	// Sweep paints a hue ramp across the width that scrolls one hue step per frame.
	// Value falls off from top to bottom so range masks on V have something to cut.
	Sweep Pattern = "sweep"
)

// bars in B, G, R order: white, yellow, cyan, green, magenta, red, blue, black.
var bars = [8][3]byte{
	{255, 255, 255},
	{0, 255, 255},
	{255, 255, 0},
	{0, 255, 0},
	{255, 0, 255},
	{0, 0, 255},
	{255, 0, 0},
	{0, 0, 0},
}

// ParsePattern accepts "bars" and "sweep".
func ParsePattern(s string) (Pattern, error) {
	switch p := Pattern(strings.ToLower(strings.TrimSpace(s))); p {
	case Bars, Sweep:
		return p, nil
	default:
		return "", fmt.Errorf("unknown pattern %q (want bars or sweep)", s)
	}
}

// Render paints frame n of pattern p into f.
func Render(f *frame.Frame, p Pattern, n int) {
	switch p {
	case Sweep:
		renderSweep(f, n)
	default:
		renderBars(f)
	}
}

func renderBars(f *frame.Frame) {
	for y := 0; y < f.Height; y++ {
		row := f.Pix[y*f.Width*frame.Channels:]
		for x := 0; x < f.Width; x++ {
			c := bars[x*len(bars)/f.Width]
			i := x * frame.Channels
			row[i], row[i+1], row[i+2], row[i+3] = c[0], c[1], c[2], 0xff
		}
	}
}

func renderSweep(f *frame.Frame, n int) {
	hsv := frame.NewInspection(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		v := 255 - y*255/max(f.Height-1, 1)
		for x := 0; x < f.Width; x++ {
			i := (y*f.Width + x) * 3
			hsv.Pix[i] = uint8((x*(colorspace.HueMax+1)/f.Width + n) % (colorspace.HueMax + 1))
			hsv.Pix[i+1] = 255
			hsv.Pix[i+2] = uint8(v)
		}
	}

	bgr := colorspace.ToDisplaySpace(hsv)
	for i, j := 0, 0; j < len(bgr.Pix); i, j = i+frame.Channels, j+3 {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = bgr.Pix[j], bgr.Pix[j+1], bgr.Pix[j+2], 0xff
	}
}

// Options configures Run.
type Options struct {
	Name    string
	Width   int
	Height  int
	FPS     int
	Pattern Pattern
	// Remove unlinks the segment when Run returns.
	Remove bool
}

// Run creates the segment and repaints it until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", opts.FPS)
	}
	logger := logging.GetLogger("testpattern")

	seg, err := shm.Create(opts.Name, opts.Width, opts.Height)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := seg.Close(); closeErr != nil {
			logger.Warn("Failed to close segment", "error", closeErr)
		}
		if opts.Remove {
			if rmErr := shm.Remove(opts.Name); rmErr != nil {
				logger.Warn("Failed to remove segment", "error", rmErr)
			}
		}
	}()

	logger.Info("Writing test pattern",
		"segment", seg.Path(), "width", opts.Width, "height", opts.Height,
		"pattern", opts.Pattern, "fps", opts.FPS)

	// Painting happens outside the lock; only the copy is locked.
	buf := frame.New(opts.Width, opts.Height)
	ticker := time.NewTicker(time.Second / time.Duration(opts.FPS))
	defer ticker.Stop()

	for n := 0; ; n++ {
		Render(buf, opts.Pattern, n)
		if err := seg.WithWritableFrame(func(pix []byte) error {
			copy(pix, buf.Pix)
			return nil
		}); err != nil {
			return fmt.Errorf("write frame %d: %w", n, err)
		}

		select {
		case <-ctx.Done():
			logger.Info("Test pattern stopped", "frames", n+1)
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
