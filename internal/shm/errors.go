package shm

import "fmt"

// AttachError reports why a segment could not be attached. It is fatal for the inspector.
type AttachError struct {
	Code    string
	Name    string
	Message string
	Cause   error
}

func (e *AttachError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Code, e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Name, e.Message)
}

func (e *AttachError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	ErrCodeNotFound            = "SEGMENT_NOT_FOUND"
	ErrCodePermissionDenied    = "PERMISSION_DENIED"
	ErrCodeSizeMismatch        = "SIZE_MISMATCH"
	ErrCodeInvalidDimensions   = "INVALID_DIMENSIONS"
	ErrCodeOpenFailed          = "OPEN_FAILED"
	ErrCodeMapFailed           = "MAP_FAILED"
	ErrCodeUnsupportedPlatform = "UNSUPPORTED_PLATFORM"
)

func newAttachError(code, name, message string, cause error) *AttachError {
	return &AttachError{
		Code:    code,
		Name:    name,
		Message: message,
		Cause:   cause,
	}
}
