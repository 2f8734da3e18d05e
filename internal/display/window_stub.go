//go:build !gocv

package display

import (
	"errors"
	"image"
)

// Native reports whether this build carries the OpenCV window backend.
const Native = false

// ErrNoNativeWindow is returned by NewWindow in builds without the gocv tag.
var ErrNoNativeWindow = errors.New("native window backend not compiled in (build with -tags gocv)")

// Window is unavailable in this build.
type Window struct{}

// NewWindow always fails without the gocv build tag.
func NewWindow(string, int) (*Window, error) { return nil, ErrNoNativeWindow }

func (*Window) RegisterIntControl(string, int, int, int) Handle { return 0 }
func (*Window) ReadControl(Handle) int                          { return 0 }
func (*Window) SetControlValue(Handle, int, string) error       { return ErrNoNativeWindow }
func (*Window) Present(string, image.Image) error               { return ErrNoNativeWindow }
func (*Window) Close() error                                    { return nil }
