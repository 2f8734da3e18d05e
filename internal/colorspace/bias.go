package colorspace

import (
	"fmt"
	"strings"

	"github.com/smazurov/hsv-inspector/internal/frame"
)

// Bias is an additive/subtractive offset for one inspection channel.
type Bias struct {
	Add int `json:"add"`
	Sub int `json:"sub"`
}

// ClipMode selects where saturation happens when a bias is applied.
type ClipMode int

const (
	// ClipOnce computes v-sub+add in int and clips once into the channel domain.
	ClipOnce ClipMode = iota
	// ClipStaged floors at zero after the subtraction, then adds and caps at the domain maximum.
	ClipStaged
)

// ParseClipMode accepts "once" (or empty) and "staged".
func ParseClipMode(s string) (ClipMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "once":
		return ClipOnce, nil
	case "staged":
		return ClipStaged, nil
	default:
		return ClipOnce, fmt.Errorf("unknown clip mode %q (want once or staged)", s)
	}
}

func (m ClipMode) String() string {
	if m == ClipStaged {
		return "staged"
	}
	return "once"
}

// Adjust applies b to a single value of channel c.
func Adjust(v, c int, b Bias, mode ClipMode) int {
	x := v - b.Sub
	if mode == ClipStaged && x < 0 {
		x = 0
	}
	x += b.Add
	return min(max(x, 0), Domain(c))
}

// ApplyBias returns a new inspection frame with bias[c] applied to channel c of every pixel.
func ApplyBias(src *frame.Inspection, bias [3]Bias, mode ClipMode) *frame.Inspection {
	var lut [3][256]uint8
	for c := range lut {
		for v := range lut[c] {
			lut[c][v] = uint8(Adjust(v, c, bias[c], mode))
		}
	}

	dst := frame.NewInspection(src.Width, src.Height)
	for i := 0; i+3 <= len(src.Pix); i += 3 {
		dst.Pix[i] = lut[0][src.Pix[i]]
		dst.Pix[i+1] = lut[1][src.Pix[i+1]]
		dst.Pix[i+2] = lut[2][src.Pix[i+2]]
	}
	return dst
}
