package app

import "fmt"

// ArgumentsError reports unusable startup arguments. Nothing has been attached when it is returned.
type ArgumentsError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ArgumentsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ArgumentsError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	ErrCodeMissingArguments = "MISSING_ARGUMENTS"
	ErrCodeInvalidArgument  = "INVALID_ARGUMENT"
)

// NewArgumentsError creates a new arguments error
func NewArgumentsError(code, message string, cause error) *ArgumentsError {
	return &ArgumentsError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
