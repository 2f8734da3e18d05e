package display

import (
	"context"
	"fmt"
	"image"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// ControlState describes a registered control.
type ControlState struct {
	Name    string `json:"name" example:"hue-min" doc:"Control slug"`
	Label   string `json:"label" example:"Hue (min)" doc:"Control label"`
	Min     int    `json:"min" example:"0" doc:"Lower bound"`
	Max     int    `json:"max" example:"179" doc:"Upper bound"`
	Default int    `json:"default" example:"0" doc:"Initial value"`
	Value   int    `json:"value" example:"0" doc:"Current value"`
}

// ViewState describes the latest image presented under a label.
type ViewState struct {
	Name    string      `json:"name"`
	Label   string      `json:"label"`
	Seq     uint64      `json:"seq"`
	Updated time.Time   `json:"updated"`
	Image   image.Image `json:"-"`
}

// ChangeFunc is called after a control took a new value.
type ChangeFunc func(state ControlState, source string)

type control struct {
	label   string
	slug    string
	lo, hi  int
	initial int
	value   atomic.Int64
}

func (c *control) state() ControlState {
	return ControlState{
		Name:    c.slug,
		Label:   c.label,
		Min:     c.lo,
		Max:     c.hi,
		Default: c.initial,
		Value:   int(c.value.Load()),
	}
}

type view struct {
	state   ViewState
	changed chan struct{}
}

// Board is an in-memory Surface. The HTTP viewer reads it; the loop writes it.
//
// Images handed to Present are kept by reference and must not be modified afterwards.
type Board struct {
	mu       sync.RWMutex
	controls []*control
	bySlug   map[string]*control
	views    map[string]*view
	onChange []ChangeFunc
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{
		bySlug: make(map[string]*control),
		views:  make(map[string]*view),
	}
}

// RegisterIntControl implements Controls. Registering an existing label returns its handle.
func (b *Board) RegisterIntControl(label string, lo, hi, initial int) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()

	slug := Slug(label)
	for i, c := range b.controls {
		if c.slug == slug {
			return Handle(i)
		}
	}

	c := &control{label: label, slug: slug, lo: lo, hi: hi, initial: clamp(initial, lo, hi)}
	c.value.Store(int64(c.initial))
	b.controls = append(b.controls, c)
	b.bySlug[slug] = c
	return Handle(len(b.controls) - 1)
}

// ReadControl implements Controls. Unknown handles read as 0.
func (b *Board) ReadControl(h Handle) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(h) < 0 || int(h) >= len(b.controls) {
		return 0
	}
	return int(b.controls[h].value.Load())
}

// SetControl sets a control by slug, clamping into its range.
func (b *Board) SetControl(name string, value int, source string) (ControlState, error) {
	b.mu.RLock()
	c, ok := b.bySlug[name]
	handlers := b.onChange
	b.mu.RUnlock()

	if !ok {
		return ControlState{}, fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}

	v := clamp(value, c.lo, c.hi)
	old := c.value.Swap(int64(v))
	st := c.state()
	if old != int64(v) {
		for _, fn := range handlers {
			fn(st, source)
		}
	}
	return st, nil
}

// SetControlValue sets a control by handle.
func (b *Board) SetControlValue(h Handle, value int, source string) error {
	b.mu.RLock()
	if int(h) < 0 || int(h) >= len(b.controls) {
		b.mu.RUnlock()
		return fmt.Errorf("%w: handle %d", ErrUnknownControl, h)
	}
	name := b.controls[h].slug
	b.mu.RUnlock()

	_, err := b.SetControl(name, value, source)
	return err
}

// ResetControls restores every control to its initial value.
func (b *Board) ResetControls(source string) []ControlState {
	for _, st := range b.Controls() {
		_, _ = b.SetControl(st.Name, st.Default, source)
	}
	return b.Controls()
}

// Control returns one control by slug.
func (b *Board) Control(name string) (ControlState, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c, ok := b.bySlug[name]
	if !ok {
		return ControlState{}, false
	}
	return c.state(), true
}

// Controls returns all controls in registration order.
func (b *Board) Controls() []ControlState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]ControlState, 0, len(b.controls))
	for _, c := range b.controls {
		out = append(out, c.state())
	}
	return out
}

// OnControlChange registers a callback for effective control changes.
func (b *Board) OnControlChange(fn ChangeFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = append(b.onChange, fn)
}

// Present implements Presenter.
func (b *Board) Present(label string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("present %q: nil image", label)
	}
	slug := Slug(label)

	b.mu.Lock()
	v, ok := b.views[slug]
	if !ok {
		v = &view{state: ViewState{Name: slug}, changed: make(chan struct{})}
		b.views[slug] = v
	}
	v.state.Label = label
	v.state.Seq++
	v.state.Updated = time.Now()
	v.state.Image = img
	close(v.changed)
	v.changed = make(chan struct{})
	b.mu.Unlock()

	return nil
}

// View returns the latest image for a view slug.
func (b *Board) View(name string) (ViewState, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.views[name]
	if !ok || v.state.Image == nil {
		return ViewState{}, fmt.Errorf("%w: %s", ErrUnknownView, name)
	}
	return v.state, nil
}

// Views lists presented views sorted by name.
func (b *Board) Views() []ViewState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]ViewState, 0, len(b.views))
	for _, v := range b.views {
		if v.state.Image != nil {
			out = append(out, v.state)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// loopViews are the slugs the inspection loop presents; they may be waited on
// before their first image arrives.
var loopViews = map[string]bool{
	Slug(ViewMask):      true,
	Slug(ViewFiltered):  true,
	Slug(ViewRawMasked): true,
}

// HasView reports whether name is a presented view or one the loop will present.
func (b *Board) HasView(name string) bool {
	if loopViews[name] {
		return true
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.views[name]
	return ok
}

// Wait blocks until the view has an image newer than afterSeq.
// A loop view that has not been presented yet is waited for as well;
// any other unknown name fails with ErrUnknownView.
func (b *Board) Wait(ctx context.Context, name string, afterSeq uint64) (ViewState, error) {
	for {
		b.mu.Lock()
		v, ok := b.views[name]
		if !ok {
			if !loopViews[name] {
				b.mu.Unlock()
				return ViewState{}, fmt.Errorf("%w: %s", ErrUnknownView, name)
			}
			v = &view{state: ViewState{Name: name}, changed: make(chan struct{})}
			b.views[name] = v
		}
		st, changed := v.state, v.changed
		b.mu.Unlock()

		if st.Seq > afterSeq && st.Image != nil {
			return st, nil
		}

		select {
		case <-ctx.Done():
			return ViewState{}, ctx.Err()
		case <-changed:
		}
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
