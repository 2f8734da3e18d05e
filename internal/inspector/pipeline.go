package inspector

import (
	"github.com/smazurov/hsv-inspector/internal/colorspace"
	"github.com/smazurov/hsv-inspector/internal/controls"
	"github.com/smazurov/hsv-inspector/internal/frame"
	"github.com/smazurov/hsv-inspector/internal/mask"
)

// Result holds every image derived from one raw frame.
type Result struct {
	Inspection *frame.Inspection
	Adjusted   *frame.Inspection
	Mask       *frame.Mask
	Filtered   *frame.BGR
	Coverage   float64
}

// Process runs one raw frame through conversion, bias, masking and compositing.
// The mask is computed on the biased values; raw is not modified.
func Process(raw *frame.Frame, p controls.Params, mode colorspace.ClipMode) Result {
	hsv := colorspace.ToInspectionSpace(raw)
	adjusted := colorspace.ApplyBias(hsv, p.Bias, mode)
	m := mask.Compute(adjusted, p.Ranges)
	filtered := mask.Composite(colorspace.ToDisplaySpace(adjusted), m)

	return Result{
		Inspection: hsv,
		Adjusted:   adjusted,
		Mask:       m,
		Filtered:   filtered,
		Coverage:   mask.Coverage(m),
	}
}

// RawMasked composites the unadjusted source image with the mask of r.
func RawMasked(raw *frame.Frame, r Result) *frame.BGR {
	return mask.Composite(raw.BGR(), r.Mask)
}
