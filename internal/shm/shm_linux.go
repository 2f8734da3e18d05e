//go:build linux

package shm

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/smazurov/hsv-inspector/internal/frame"
)

func openSegment(name string, width, height int, writable bool) (*Segment, error) {
	size, err := frame.ByteSize(width, height)
	if err != nil {
		return nil, newAttachError(ErrCodeInvalidDimensions, name, "bad frame geometry", err)
	}

	path := ResolvePath(name)
	flags := unix.O_RDONLY | unix.O_CLOEXEC
	prot := unix.PROT_READ
	if writable {
		flags = unix.O_RDWR | unix.O_CREAT | unix.O_CLOEXEC
		prot |= unix.PROT_WRITE
	}

	fd, err := unix.Open(path, flags, 0o600)
	if err != nil {
		switch {
		case errors.Is(err, unix.ENOENT):
			return nil, newAttachError(ErrCodeNotFound, name, "no segment at "+path, err)
		case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
			return nil, newAttachError(ErrCodePermissionDenied, name, "cannot open "+path, err)
		default:
			return nil, newAttachError(ErrCodeOpenFailed, name, "cannot open "+path, err)
		}
	}

	if writable {
		if err := unix.Ftruncate(fd, int64(size)); err != nil {
			_ = unix.Close(fd)
			return nil, newAttachError(ErrCodeOpenFailed, name, "cannot size segment", err)
		}
	}

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		_ = unix.Close(fd)
		return nil, newAttachError(ErrCodeOpenFailed, name, "cannot stat segment", err)
	}
	if st.Size != int64(size) {
		_ = unix.Close(fd)
		return nil, newAttachError(ErrCodeSizeMismatch, name,
			fmt.Sprintf("segment is %d bytes, %dx%d frame needs %d", st.Size, width, height, size), nil)
	}

	data, err := unix.Mmap(fd, 0, size, prot, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, newAttachError(ErrCodeMapFailed, name, "mmap failed", err)
	}

	return &Segment{
		name:     name,
		path:     path,
		width:    width,
		height:   height,
		size:     size,
		writable: writable,
		fd:       fd,
		data:     data,
	}, nil
}

// Remove unlinks a segment created with Create.
func Remove(name string) error {
	err := os.Remove(ResolvePath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func lockFD(fd int) error {
	for {
		err := unix.Flock(fd, unix.LOCK_EX)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

func unlockFD(fd int) error {
	return unix.Flock(fd, unix.LOCK_UN)
}

func unmap(data []byte) error {
	return unix.Munmap(data)
}

func closeFD(fd int) error {
	return unix.Close(fd)
}
