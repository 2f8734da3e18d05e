// Package mask computes range masks over inspection frames and composites them onto images.
package mask

import (
	"fmt"

	"github.com/smazurov/hsv-inspector/internal/frame"
)

const (
	// Excluded marks a pixel outside at least one channel range.
	Excluded uint8 = 0
	// Included marks a pixel inside all three channel ranges.
	Included uint8 = 255
)

// Range is an inclusive bound on one inspection channel. Min > Max matches nothing.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v is within the range.
func (r Range) Contains(v uint8) bool {
	return r.Min <= int(v) && int(v) <= r.Max
}

// Compute returns a mask that is Included where every channel lies within its range.
func Compute(src *frame.Inspection, ranges [3]Range) *frame.Mask {
	var inRange [3][256]bool
	for c := range inRange {
		for v := range inRange[c] {
			inRange[c][v] = ranges[c].Contains(uint8(v))
		}
	}

	m := frame.NewMask(src.Width, src.Height)
	for i, j := 0, 0; j < len(m.Pix); i, j = i+3, j+1 {
		if inRange[0][src.Pix[i]] && inRange[1][src.Pix[i+1]] && inRange[2][src.Pix[i+2]] {
			m.Pix[j] = Included
		}
	}
	return m
}

// Composite copies img where m is Included and leaves the rest black.
// It panics if the dimensions differ.
func Composite(img *frame.BGR, m *frame.Mask) *frame.BGR {
	if img.Width != m.Width || img.Height != m.Height {
		panic(fmt.Sprintf("mask: composite %dx%d image with %dx%d mask", img.Width, img.Height, m.Width, m.Height))
	}

	out := frame.NewBGR(img.Width, img.Height)
	for j, i := 0, 0; j < len(m.Pix); j, i = j+1, i+3 {
		if m.Pix[j] == Included {
			out.Pix[i] = img.Pix[i]
			out.Pix[i+1] = img.Pix[i+1]
			out.Pix[i+2] = img.Pix[i+2]
		}
	}
	return out
}

// Coverage returns the fraction of included pixels.
func Coverage(m *frame.Mask) float64 {
	if len(m.Pix) == 0 {
		return 0
	}
	n := 0
	for _, p := range m.Pix {
		if p == Included {
			n++
		}
	}
	return float64(n) / float64(len(m.Pix))
}
