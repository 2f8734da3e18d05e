//go:build !linux

package shm

import "errors"

var errUnsupported = errors.New("shared segments are only supported on linux")

func openSegment(name string, _, _ int, _ bool) (*Segment, error) {
	return nil, newAttachError(ErrCodeUnsupportedPlatform, name, "cannot attach", errUnsupported)
}

// Remove unlinks a segment created with Create.
func Remove(string) error { return errUnsupported }

func lockFD(int) error   { return errUnsupported }
func unlockFD(int) error { return errUnsupported }
func unmap([]byte) error { return errUnsupported }
func closeFD(int) error  { return errUnsupported }
