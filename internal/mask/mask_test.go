package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smazurov/hsv-inspector/internal/frame"
)

var wide = [3]Range{{0, 179}, {0, 255}, {0, 255}}

func inspection(pixels ...[3]uint8) *frame.Inspection {
	f := frame.NewInspection(len(pixels), 1)
	for i, p := range pixels {
		copy(f.Pix[i*3:], p[:])
	}
	return f
}

func TestCompute_WideRangesIncludeEverything(t *testing.T) {
	f := frame.NewInspection(16, 16)
	for i := range f.Pix {
		f.Pix[i] = uint8(i % 180)
	}

	m := Compute(f, wide)
	for i, p := range m.Pix {
		require.Equal(t, Included, p, "pixel %d", i)
	}
}

func TestCompute_AllChannelsMustMatch(t *testing.T) {
	ranges := [3]Range{{10, 20}, {100, 200}, {50, 60}}
	f := inspection(
		[3]uint8{15, 150, 55}, // all in
		[3]uint8{9, 150, 55},  // hue below
		[3]uint8{15, 201, 55}, // sat above
		[3]uint8{15, 150, 61}, // val above
		[3]uint8{10, 100, 50}, // inclusive lower bounds
		[3]uint8{20, 200, 60}, // inclusive upper bounds
	)

	m := Compute(f, ranges)
	assert.Equal(t, []uint8{255, 0, 0, 0, 255, 255}, m.Pix)
}

func TestCompute_PinnedHueExcludesOtherHues(t *testing.T) {
	ranges := wide
	ranges[0] = Range{Min: 0, Max: 0}
	f := inspection([3]uint8{90, 255, 255}, [3]uint8{0, 255, 255})

	m := Compute(f, ranges)
	assert.Equal(t, Excluded, m.Pix[0])
	assert.Equal(t, Included, m.Pix[1])
}

func TestCompute_InvertedRangeIsEmpty(t *testing.T) {
	ranges := wide
	ranges[1] = Range{Min: 200, Max: 100}
	f := inspection([3]uint8{0, 150, 0}, [3]uint8{0, 0, 0}, [3]uint8{0, 255, 0})

	m := Compute(f, ranges)
	assert.Equal(t, []uint8{0, 0, 0}, m.Pix)
}

func TestComposite(t *testing.T) {
	img := frame.NewBGR(2, 1)
	copy(img.Pix, []uint8{1, 2, 3, 4, 5, 6})
	m := frame.NewMask(2, 1)
	m.Pix[1] = Included

	out := Composite(img, m)
	assert.Equal(t, []uint8{0, 0, 0, 4, 5, 6}, out.Pix)
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6}, img.Pix, "source must not change")
}

func TestComposite_DimensionMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		Composite(frame.NewBGR(2, 2), frame.NewMask(1, 1))
	})
}

func TestCoverage(t *testing.T) {
	m := frame.NewMask(4, 1)
	assert.Zero(t, Coverage(m))

	m.Pix[0], m.Pix[3] = Included, Included
	assert.InDelta(t, 0.5, Coverage(m), 1e-9)
}
