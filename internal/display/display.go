// Package display defines the small widget capability the inspection loop depends on
// and the backends that provide it.
package display

import (
	"errors"
	"image"
	"strings"
)

// View labels presented by the inspection loop.
const (
	ViewMask      = "Mask only"
	ViewFiltered  = "Adjusted and masked"
	ViewRawMasked = "Raw masked"
)

var (
	// ErrUnknownControl is returned for a control that was never registered.
	ErrUnknownControl = errors.New("unknown control")
	// ErrUnknownView is returned for a view that was never presented.
	ErrUnknownView = errors.New("unknown view")
)

// Handle identifies a registered control.
type Handle int

// Controls registers integer controls and reads their current value.
type Controls interface {
	RegisterIntControl(label string, lo, hi, initial int) Handle
	ReadControl(h Handle) int
}

// Presenter shows a named image.
type Presenter interface {
	Present(label string, img image.Image) error
}

// Surface is everything the inspection loop needs from a widget toolkit.
type Surface interface {
	Controls
	Presenter
}

// Slug turns a label into a URL-safe name: "Hue (min)" becomes "hue-min".
func Slug(label string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}

type tee []Presenter

// Tee presents every image on each of ps in order. All presenters are tried;
// their errors are joined.
func Tee(ps ...Presenter) Presenter {
	return tee(ps)
}

func (t tee) Present(label string, img image.Image) error {
	var errs []error
	for _, p := range t {
		if err := p.Present(label, img); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
