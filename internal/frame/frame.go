// Package frame defines the pixel buffers that flow through the inspection pipeline.
//
// A Frame mirrors the producer's shared segment layout: four bytes per pixel
// in B, G, R, X order (a little-endian ARGB word), row-major, no padding.
// Inspection, Mask and BGR are derived once per cycle and never shared
// with the producer.
package frame

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Channels is the number of bytes per pixel in a raw frame.
const Channels = 4

// ByteSize returns width*height*Channels, rejecting non-positive or overflowing dimensions.
func ByteSize(width, height int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("invalid frame dimensions %dx%d", width, height)
	}
	if width > math.MaxInt/Channels/height {
		return 0, fmt.Errorf("frame dimensions %dx%d overflow", width, height)
	}
	return width * height * Channels, nil
}

// Frame is a raw 4-channel frame.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a zeroed frame. It panics on invalid dimensions.
func New(width, height int) *Frame {
	size, err := ByteSize(width, height)
	if err != nil {
		panic(err)
	}
	return &Frame{Width: width, Height: height, Pix: make([]byte, size)}
}

// BGR drops the ignored fourth byte of every pixel.
func (f *Frame) BGR() *BGR {
	out := NewBGR(f.Width, f.Height)
	for i, j := 0, 0; i < len(f.Pix); i, j = i+Channels, j+3 {
		out.Pix[j] = f.Pix[i]
		out.Pix[j+1] = f.Pix[i+1]
		out.Pix[j+2] = f.Pix[i+2]
	}
	return out
}

// Inspection holds H, S, V bytes per pixel. H is in [0,179], S and V in [0,255].
type Inspection struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewInspection allocates a zeroed inspection frame.
func NewInspection(width, height int) *Inspection {
	return &Inspection{Width: width, Height: height, Pix: make([]uint8, width*height*3)}
}

// At returns the three channel values of the pixel at (x, y).
func (f *Inspection) At(x, y int) (h, s, v uint8) {
	i := (y*f.Width + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Mask is a single-channel inclusion image holding 0 or 255 per pixel.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask allocates an all-excluded mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// Gray exposes the mask as an image without copying.
func (m *Mask) Gray() *image.Gray {
	return &image.Gray{
		Pix:    m.Pix,
		Stride: m.Width,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}

// BGR is a 3-channel display image in B, G, R byte order.
type BGR struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBGR allocates a black image.
func NewBGR(width, height int) *BGR {
	return &BGR{Width: width, Height: height, Pix: make([]uint8, width*height*3)}
}

// ColorModel implements image.Image.
func (b *BGR) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (b *BGR) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

// At implements image.Image.
func (b *BGR) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return color.RGBA{}
	}
	i := (y*b.Width + x) * 3
	return color.RGBA{R: b.Pix[i+2], G: b.Pix[i+1], B: b.Pix[i], A: 0xff}
}

// RGBA converts to a standard library image, used by encoders that fast-path *image.RGBA.
func (b *BGR) RGBA() *image.RGBA {
	out := image.NewRGBA(b.Bounds())
	for i, j := 0, 0; i < len(b.Pix); i, j = i+3, j+4 {
		out.Pix[j] = b.Pix[i+2]
		out.Pix[j+1] = b.Pix[i+1]
		out.Pix[j+2] = b.Pix[i]
		out.Pix[j+3] = 0xff
	}
	return out
}
