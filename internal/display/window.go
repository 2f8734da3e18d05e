//go:build gocv

package display

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/smazurov/hsv-inspector/internal/frame"
)

// Native reports whether this build carries the OpenCV window backend.
const Native = true

// Window is a Surface backed by OpenCV HighGUI windows.
// Controls live on a dedicated window, each presented label gets its own window.
// All methods must be called from the goroutine that created the Window.
type Window struct {
	mu        sync.Mutex
	controls  *gocv.Window
	trackbars []*gocv.Trackbar
	views     map[string]*gocv.Window
	delay     int
}

// NewWindow opens the control window. delayMillis is passed to WaitKey after each present.
func NewWindow(title string, delayMillis int) (*Window, error) {
	if delayMillis < 1 {
		delayMillis = 1
	}
	return &Window{
		controls: gocv.NewWindow(title),
		views:    make(map[string]*gocv.Window),
		delay:    delayMillis,
	}, nil
}

// RegisterIntControl implements Controls.
func (w *Window) RegisterIntControl(label string, lo, hi, initial int) Handle {
	w.mu.Lock()
	defer w.mu.Unlock()

	tb := w.controls.CreateTrackbar(label, hi)
	tb.SetMin(lo)
	tb.SetPos(clamp(initial, lo, hi))
	w.trackbars = append(w.trackbars, tb)
	return Handle(len(w.trackbars) - 1)
}

// ReadControl implements Controls.
func (w *Window) ReadControl(h Handle) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if int(h) < 0 || int(h) >= len(w.trackbars) {
		return 0
	}
	return w.trackbars[h].GetPos()
}

// SetControlValue moves a trackbar. Like every Window method it must run on the owning goroutine.
func (w *Window) SetControlValue(h Handle, value int, _ string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if int(h) < 0 || int(h) >= len(w.trackbars) {
		return fmt.Errorf("%w: handle %d", ErrUnknownControl, h)
	}
	w.trackbars[h].SetPos(value)
	return nil
}

// Present implements Presenter.
func (w *Window) Present(label string, img image.Image) error {
	mat, err := toMat(img)
	if err != nil {
		return fmt.Errorf("present %q: %w", label, err)
	}
	defer mat.Close()

	w.mu.Lock()
	win, ok := w.views[label]
	if !ok {
		win = gocv.NewWindow(label)
		w.views[label] = win
	}
	w.mu.Unlock()

	win.IMShow(mat)
	win.WaitKey(w.delay)
	return nil
}

// Close destroys all windows.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for label, win := range w.views {
		_ = win.Close()
		delete(w.views, label)
	}
	return w.controls.Close()
}

func toMat(img image.Image) (gocv.Mat, error) {
	switch m := img.(type) {
	case *frame.BGR:
		return gocv.NewMatFromBytes(m.Height, m.Width, gocv.MatTypeCV8UC3, m.Pix)
	case *image.Gray:
		return gocv.ImageGrayToMatGray(m)
	case nil:
		return gocv.Mat{}, fmt.Errorf("nil image")
	default:
		return gocv.ImageToMatRGB(img)
	}
}
