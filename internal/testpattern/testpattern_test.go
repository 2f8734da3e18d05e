//go:build linux

package testpattern

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smazurov/hsv-inspector/internal/colorspace"
	"github.com/smazurov/hsv-inspector/internal/frame"
	"github.com/smazurov/hsv-inspector/internal/shm"
)

func pixel(f *frame.Frame, x, y int) [4]byte {
	i := (y*f.Width + x) * frame.Channels
	return [4]byte(f.Pix[i : i+4])
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern(" Sweep ")
	require.NoError(t, err)
	assert.Equal(t, Sweep, p)

	_, err = ParsePattern("noise")
	assert.Error(t, err)
}

func TestRender_Bars(t *testing.T) {
	f := frame.New(16, 2)
	Render(f, Bars, 0)

	assert.Equal(t, [4]byte{255, 255, 255, 0xff}, pixel(f, 0, 0), "white")
	assert.Equal(t, [4]byte{255, 255, 0, 0xff}, pixel(f, 4, 1), "cyan")
	assert.Equal(t, [4]byte{0, 0, 255, 0xff}, pixel(f, 10, 0), "red")
	assert.Equal(t, [4]byte{0, 0, 0, 0xff}, pixel(f, 15, 1), "black")
}

func TestRender_SweepHueScrolls(t *testing.T) {
	f := frame.New(180, 4)

	Render(f, Sweep, 0)
	h, s, v := colorspace.ToInspectionSpace(f).At(0, 0)
	assert.Equal(t, [3]uint8{0, 255, 255}, [3]uint8{h, s, v})

	Render(f, Sweep, 60)
	h, _, _ = colorspace.ToInspectionSpace(f).At(0, 0)
	assert.Equal(t, uint8(60), h)

	_, _, v = colorspace.ToInspectionSpace(f).At(0, 3)
	assert.Zero(t, v, "bottom row is dark")
}

func TestRun_WritesSegment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pattern.argb")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{Name: path, Width: 8, Height: 2, FPS: 100, Pattern: Bars, Remove: true})
	}()

	want := frame.New(8, 2)
	Render(want, Bars, 0)

	require.Eventually(t, func() bool {
		seg, err := shm.Attach(path, 8, 2)
		if err != nil {
			return false
		}
		defer seg.Close()
		got := frame.New(8, 2)
		return seg.Snapshot(got) == nil && assert.ObjectsAreEqual(want.Pix, got.Pix)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	_, err := shm.Attach(path, 8, 2)
	assert.Error(t, err, "segment removed")
}

func TestRun_RejectsBadFPS(t *testing.T) {
	err := Run(context.Background(), Options{Name: "unused", Width: 1, Height: 1})
	assert.Error(t, err)
}
