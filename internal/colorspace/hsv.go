// Package colorspace converts raw frames into the 8-bit HSV inspection space and back,
// and applies the per-channel bias used to tune thresholds.
package colorspace

import (
	"math"

	"github.com/smazurov/hsv-inspector/internal/frame"
)

// Channel domains of the inspection space.
const (
	HueMax = 179
	SatMax = 255
	ValMax = 255
)

// Domain returns the inclusive upper bound of channel c.
func Domain(c int) int {
	if c == 0 {
		return HueMax
	}
	return SatMax
}

// Fixed-point precision of the division tables.
const hsvShift = 12

var (
	sdivTable [256]int
	hdivTable [256]int
)

func init() {
	for i := 1; i < 256; i++ {
		sdivTable[i] = int(math.Round(float64(255<<hsvShift) / float64(i)))
		hdivTable[i] = int(math.Round(float64(180<<hsvShift) / (6 * float64(i))))
	}
}

// sectorData picks B, G, R out of {v, p, q, t} for each of the six hue sectors.
var sectorData = [6][3]int{{1, 3, 0}, {1, 0, 2}, {3, 0, 1}, {0, 2, 1}, {0, 1, 3}, {2, 1, 0}}

// ToInspectionSpace converts a raw frame to HSV. The fourth byte of every pixel is ignored.
func ToInspectionSpace(src *frame.Frame) *frame.Inspection {
	dst := frame.NewInspection(src.Width, src.Height)
	for i, j := 0, 0; i+frame.Channels <= len(src.Pix); i, j = i+frame.Channels, j+3 {
		dst.Pix[j], dst.Pix[j+1], dst.Pix[j+2] = bgrToHSV(int(src.Pix[i]), int(src.Pix[i+1]), int(src.Pix[i+2]))
	}
	return dst
}

// ToDisplaySpace converts an inspection frame back to BGR for presentation.
func ToDisplaySpace(src *frame.Inspection) *frame.BGR {
	dst := frame.NewBGR(src.Width, src.Height)
	for i := 0; i+3 <= len(src.Pix); i += 3 {
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = hsvToBGR(src.Pix[i], src.Pix[i+1], src.Pix[i+2])
	}
	return dst
}

func bgrToHSV(b, g, r int) (h, s, v uint8) {
	vmax := max(b, g, r)
	diff := vmax - min(b, g, r)

	sat := (diff*sdivTable[vmax] + 1<<(hsvShift-1)) >> hsvShift

	var hue int
	switch vmax {
	case r:
		hue = g - b
	case g:
		hue = b - r + 2*diff
	default:
		hue = r - g + 4*diff
	}
	hue = (hue*hdivTable[diff] + 1<<(hsvShift-1)) >> hsvShift
	if hue < 0 {
		hue += 180
	}

	return uint8(hue), uint8(sat), uint8(vmax)
}

func hsvToBGR(h, s, v uint8) (b, g, r uint8) {
	hf := float32(h) * (6.0 / 180.0)
	sf := float32(s) * (1.0 / 255.0)
	vf := float32(v) * (1.0 / 255.0)

	if sf == 0 {
		c := toByte(vf)
		return c, c, c
	}

	for hf >= 6 {
		hf -= 6
	}
	sector := int(hf)
	hf -= float32(sector)
	if sector < 0 || sector >= 6 {
		sector, hf = 0, 0
	}

	tab := [4]float32{
		vf,
		vf * (1 - sf),
		vf * (1 - sf*hf),
		vf * (1 - sf*(1-hf)),
	}
	idx := sectorData[sector]
	return toByte(tab[idx[0]]), toByte(tab[idx[1]]), toByte(tab[idx[2]])
}

func toByte(x float32) uint8 {
	y := math.RoundToEven(float64(x * 255))
	switch {
	case y < 0:
		return 0
	case y > 255:
		return 255
	}
	return uint8(y)
}
