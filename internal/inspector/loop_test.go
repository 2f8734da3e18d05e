package inspector

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smazurov/hsv-inspector/internal/colorspace"
	"github.com/smazurov/hsv-inspector/internal/controls"
	"github.com/smazurov/hsv-inspector/internal/display"
	"github.com/smazurov/hsv-inspector/internal/events"
	"github.com/smazurov/hsv-inspector/internal/frame"
	"github.com/smazurov/hsv-inspector/internal/metrics"
)

type fakeSource struct {
	mu    sync.Mutex
	pix   []byte
	err   error
	calls atomic.Int64
}

func (s *fakeSource) WithFrame(fn func(pix []byte) error) error {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	return fn(s.pix)
}

type failingPresenter struct{ calls atomic.Int64 }

func (p *failingPresenter) Present(string, image.Image) error {
	p.calls.Add(1)
	return errors.New("window gone")
}

func newLoop(t *testing.T, w, h int, pix []byte, opts Options) (*Loop, *display.Board, *fakeSource) {
	t.Helper()
	board := display.NewBoard()
	src := &fakeSource{pix: pix}
	opts.Width, opts.Height = w, h
	l, err := New(src, controls.Register(board), board, nil, opts)
	require.NoError(t, err)
	return l, board, src
}

func TestProcess_BlackFrameDefaults(t *testing.T) {
	raw := frame.New(2, 2)

	res := Process(raw, controls.DefaultParams(), colorspace.ClipOnce)
	assert.Equal(t, []uint8{255, 255, 255, 255}, res.Mask.Pix)
	assert.Equal(t, make([]uint8, 2*2*3), res.Filtered.Pix)
	assert.InDelta(t, 1.0, res.Coverage, 1e-9)
}

func TestProcess_PinnedHueExcludesOtherHue(t *testing.T) {
	raw := frame.New(2, 1)
	copy(raw.Pix, []byte{
		255, 255, 0, 0, // cyan, hue 90
		0, 0, 255, 0, // red, hue 0
	})
	p := controls.DefaultParams()
	p.Ranges[0].Min, p.Ranges[0].Max = 0, 0

	res := Process(raw, p, colorspace.ClipOnce)
	assert.Equal(t, []uint8{0, 255}, res.Mask.Pix)
	assert.Equal(t, []uint8{0, 0, 0, 0, 0, 255}, res.Filtered.Pix)
}

func TestProcess_MaskUsesBiasedValues(t *testing.T) {
	raw := frame.New(1, 1)
	copy(raw.Pix, []byte{100, 100, 100, 0})
	p := controls.DefaultParams()
	p.Ranges[2].Min = 150
	p.Bias[2].Add = 60

	res := Process(raw, p, colorspace.ClipOnce)
	assert.Equal(t, []uint8{255}, res.Mask.Pix)
	assert.Equal(t, []uint8{160, 160, 160}, res.Filtered.Pix)
	assert.Equal(t, []uint8{100, 100, 100}, RawMasked(raw, res).Pix)
}

func TestProcess_Dimensions(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {640, 480}} {
		res := Process(frame.New(dims[0], dims[1]), controls.DefaultParams(), colorspace.ClipOnce)
		assert.Equal(t, dims[0], res.Mask.Width)
		assert.Equal(t, dims[1], res.Mask.Height)
		assert.Equal(t, dims[0], res.Filtered.Width)
		assert.Equal(t, dims[1], res.Filtered.Height)
	}
}

func TestNew_RejectsBadDimensions(t *testing.T) {
	_, err := New(&fakeSource{}, controls.Register(display.NewBoard()), display.NewBoard(), nil, Options{Width: 0, Height: 4})
	assert.Error(t, err)
}

func TestStep_PresentsViews(t *testing.T) {
	l, board, _ := newLoop(t, 2, 2, make([]byte, 16), Options{})
	require.NoError(t, l.Step())

	views := board.Views()
	require.Len(t, views, 2)
	assert.Equal(t, "adjusted-and-masked", views[0].Name)
	assert.Equal(t, "mask-only", views[1].Name)

	v, err := board.View("mask-only")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), v.Image.Bounds())
}

func TestStep_ShowRawAddsThirdView(t *testing.T) {
	l, board, _ := newLoop(t, 1, 1, make([]byte, 4), Options{ShowRaw: true})
	require.NoError(t, l.Step())

	_, err := board.View("raw-masked")
	assert.NoError(t, err)
}

func TestStep_ReadsControlsEachCycle(t *testing.T) {
	pix := []byte{255, 255, 0, 0}
	l, board, _ := newLoop(t, 1, 1, pix, Options{})

	require.NoError(t, l.Step())
	v, _ := board.View("mask-only")
	assert.Equal(t, []uint8{255}, v.Image.(*image.Gray).Pix)

	_, err := board.SetControl("hue-max", 0, "test")
	require.NoError(t, err)
	require.NoError(t, l.Step())
	v, _ = board.View("mask-only")
	assert.Equal(t, []uint8{0}, v.Image.(*image.Gray).Pix)
}

func TestStep_SizeMismatch(t *testing.T) {
	l, _, _ := newLoop(t, 2, 2, make([]byte, 4), Options{})
	assert.Error(t, l.Step())
}

func TestStep_PresentErrorDoesNotFail(t *testing.T) {
	board := display.NewBoard()
	out := &failingPresenter{}
	l, err := New(&fakeSource{pix: make([]byte, 4)}, controls.Register(board), out, nil, Options{Width: 1, Height: 1})
	require.NoError(t, err)

	assert.NoError(t, l.Step())
	assert.EqualValues(t, 2, out.calls.Load())
}

func TestRun_TerminatesOnCancel(t *testing.T) {
	metrics.ResetLoopStats()
	bus := events.New()
	var states []string
	var mu sync.Mutex
	unsub := bus.Subscribe(func(e events.LoopStateEvent) {
		mu.Lock()
		states = append(states, e.State)
		mu.Unlock()
	})
	defer unsub()

	board := display.NewBoard()
	src := &fakeSource{pix: make([]byte, 4)}
	l, err := New(src, controls.Register(board), board, bus, Options{Width: 1, Height: 1, PollInterval: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, Running, l.State())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return src.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Equal(t, Terminated, l.State())
	assert.False(t, metrics.GetLoopStats().Running)
	assert.GreaterOrEqual(t, metrics.GetLoopStats().Frames, uint64(3))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) == 2
	}, time.Second, time.Millisecond)
	mu.Lock()
	assert.Equal(t, []string{"running", "terminated"}, states)
	mu.Unlock()
}

func TestRun_SourceErrorEndsLoop(t *testing.T) {
	l, _, src := newLoop(t, 1, 1, make([]byte, 4), Options{})
	src.err = errors.New("segment closed")

	err := l.Run(context.Background())
	assert.ErrorContains(t, err, "segment closed")
	assert.Equal(t, Terminated, l.State())
}
