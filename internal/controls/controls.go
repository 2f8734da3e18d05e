// Package controls defines the nine live-tunable inspection parameters and
// binds them to a display.Controls capability.
package controls

import (
	"github.com/smazurov/hsv-inspector/internal/colorspace"
	"github.com/smazurov/hsv-inspector/internal/display"
	"github.com/smazurov/hsv-inspector/internal/mask"
)

// Spec describes one control.
type Spec struct {
	Label   string
	Channel int
	Min     int
	Max     int
	Default int
}

// Name returns the control slug used by presets and the HTTP API.
func (s Spec) Name() string {
	return display.Slug(s.Label)
}

// Index of each control in Specs.
const (
	HueMin = iota
	HueMax
	SatMin
	SatMax
	ValMin
	ValMax
	Hadd
	Sadd
	Vadd
	Hsub
	Ssub
	Vsub
	count
)

// Specs lists the controls in registration order.
var Specs = [count]Spec{
	HueMin: {Label: "Hue (min)", Channel: 0, Max: colorspace.HueMax},
	HueMax: {Label: "Hue (max)", Channel: 0, Max: colorspace.HueMax, Default: colorspace.HueMax},
	SatMin: {Label: "Sat (min)", Channel: 1, Max: colorspace.SatMax},
	SatMax: {Label: "Sat (max)", Channel: 1, Max: colorspace.SatMax, Default: colorspace.SatMax},
	ValMin: {Label: "Val (min)", Channel: 2, Max: colorspace.ValMax},
	ValMax: {Label: "Val (max)", Channel: 2, Max: colorspace.ValMax, Default: colorspace.ValMax},
	Hadd:   {Label: "Hadd", Channel: 0, Max: colorspace.HueMax},
	Sadd:   {Label: "Sadd", Channel: 1, Max: colorspace.SatMax},
	Vadd:   {Label: "Vadd", Channel: 2, Max: colorspace.ValMax},
	Hsub:   {Label: "Hsub", Channel: 0, Max: colorspace.HueMax},
	Ssub:   {Label: "Ssub", Channel: 1, Max: colorspace.SatMax},
	Vsub:   {Label: "Vsub", Channel: 2, Max: colorspace.ValMax},
}

// Lookup finds a spec index by slug.
func Lookup(name string) (int, bool) {
	for i, s := range Specs {
		if s.Name() == name {
			return i, true
		}
	}
	return -1, false
}

// Params is one snapshot of all control values.
type Params struct {
	Ranges [3]mask.Range
	Bias   [3]colorspace.Bias
}

// DefaultParams returns the values the controls start with.
func DefaultParams() Params {
	var v [count]int
	for i, s := range Specs {
		v[i] = s.Default
	}
	return fromValues(v)
}

func fromValues(v [count]int) Params {
	return Params{
		Ranges: [3]mask.Range{
			{Min: v[HueMin], Max: v[HueMax]},
			{Min: v[SatMin], Max: v[SatMax]},
			{Min: v[ValMin], Max: v[ValMax]},
		},
		Bias: [3]colorspace.Bias{
			{Add: v[Hadd], Sub: v[Hsub]},
			{Add: v[Sadd], Sub: v[Ssub]},
			{Add: v[Vadd], Sub: v[Vsub]},
		},
	}
}

// Setter moves a registered control; backends that support programmatic updates implement it.
type Setter interface {
	SetControlValue(h display.Handle, value int, source string) error
}

// Panel holds the handles of the registered controls.
type Panel struct {
	ctl     display.Controls
	handles [count]display.Handle
}

// Register registers all controls with c, in order, at their defaults.
func Register(c display.Controls) *Panel {
	p := &Panel{ctl: c}
	for i, s := range Specs {
		p.handles[i] = c.RegisterIntControl(s.Label, s.Min, s.Max, s.Default)
	}
	return p
}

// Read returns the current values. Out-of-domain readings are clamped.
func (p *Panel) Read() Params {
	var v [count]int
	for i, s := range Specs {
		v[i] = min(max(p.ctl.ReadControl(p.handles[i]), s.Min), s.Max)
	}
	return fromValues(v)
}

// Handle returns the handle of the control at index i.
func (p *Panel) Handle(i int) display.Handle {
	return p.handles[i]
}
