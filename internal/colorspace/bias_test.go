package colorspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smazurov/hsv-inspector/internal/frame"
)

func TestApplyBias_ZeroIsIdentity(t *testing.T) {
	in := frame.NewInspection(4, 2)
	for i := range in.Pix {
		in.Pix[i] = uint8(i * 23 % 180)
	}

	for _, mode := range []ClipMode{ClipOnce, ClipStaged} {
		out := ApplyBias(in, [3]Bias{}, mode)
		assert.Equal(t, in.Pix, out.Pix, "mode %s", mode)
	}
}

func TestApplyBias_DoesNotMutateInput(t *testing.T) {
	in := frame.NewInspection(1, 1)
	copy(in.Pix, []uint8{50, 60, 70})

	ApplyBias(in, [3]Bias{{Add: 10}, {Add: 10}, {Add: 10}}, ClipOnce)
	assert.Equal(t, []uint8{50, 60, 70}, in.Pix)
}

func TestAdjust_Saturates(t *testing.T) {
	tests := []struct {
		name string
		v, c int
		bias Bias
		want int
	}{
		{"hue below zero", 10, 0, Bias{Sub: 50}, 0},
		{"hue above domain", 170, 0, Bias{Add: 100}, HueMax},
		{"hue at domain edge", 179, 0, Bias{Add: 0}, 179},
		{"sat below zero", 5, 1, Bias{Sub: 255}, 0},
		{"sat above domain", 200, 1, Bias{Add: 255}, 255},
		{"val wide intermediate", 255, 2, Bias{Add: 255, Sub: 0}, 255},
		{"add and sub cancel", 100, 2, Bias{Add: 40, Sub: 40}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Adjust(tt.v, tt.c, tt.bias, ClipOnce))
		})
	}
}

func TestAdjust_ClipModesDifferOnlyBelowZero(t *testing.T) {
	b := Bias{Add: 30, Sub: 50}

	assert.Equal(t, 0, Adjust(10, 2, b, ClipOnce), "10-50+30 = -10 clips to 0")
	assert.Equal(t, 30, Adjust(10, 2, b, ClipStaged), "max(10-50,0)+30 = 30")

	assert.Equal(t, Adjust(200, 2, b, ClipOnce), Adjust(200, 2, b, ClipStaged))
}

func TestAdjust_Monotonic(t *testing.T) {
	for c := 0; c < 3; c++ {
		domain := Domain(c)
		for v := 0; v <= domain; v += 7 {
			for sub := 0; sub <= domain; sub += 11 {
				prev := -1
				for add := 0; add <= domain; add++ {
					got := Adjust(v, c, Bias{Add: add, Sub: sub}, ClipOnce)
					require.GreaterOrEqual(t, got, prev, "c=%d v=%d sub=%d add=%d", c, v, sub, add)
					require.GreaterOrEqual(t, got, 0)
					require.LessOrEqual(t, got, domain)
					prev = got
				}
			}
			for add := 0; add <= domain; add += 11 {
				prev := domain + 1
				for sub := 0; sub <= domain; sub++ {
					got := Adjust(v, c, Bias{Add: add, Sub: sub}, ClipOnce)
					require.LessOrEqual(t, got, prev, "c=%d v=%d add=%d sub=%d", c, v, add, sub)
					prev = got
				}
			}
		}
	}
}

func TestParseClipMode(t *testing.T) {
	mode, err := ParseClipMode("")
	require.NoError(t, err)
	assert.Equal(t, ClipOnce, mode)

	mode, err = ParseClipMode("Staged")
	require.NoError(t, err)
	assert.Equal(t, ClipStaged, mode)

	_, err = ParseClipMode("twice")
	assert.Error(t, err)
}
