package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a combo error code.
type ErrorCode string

const (
	ErrIO             ErrorCode = "IO_ERROR"        // 500
	ErrParse          ErrorCode = "PARSE_ERROR"     // 422
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// ComboError represents a structured error with code, status, and details.
type ComboError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	// Err is the underlying cause, if any (only set for IO and internal errors).
	Err error
}

// Error implements the error interface.
func (e *ComboError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause so errors.Is(err, fs.ErrNotExist) works.
func (e *ComboError) Unwrap() error {
	return e.Err
}

// NewIO creates an error wrapping a filesystem or read failure for path.
func NewIO(path string, err error) *ComboError {
	msg := "i/o error"
	if err != nil {
		msg = err.Error()
	}
	return &ComboError{
		Code:    ErrIO,
		Status:  500,
		Message: msg,
		Details: map[string]any{"path": path},
		Err:     err,
	}
}

// NewParse creates a 422 error for a malformed data line.
func NewParse(msg, line string) *ComboError {
	return &ComboError{
		Code:    ErrParse,
		Status:  422,
		Message: msg,
		Details: map[string]any{"line": line},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ComboError {
	return &ComboError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error.
func NewNotFound(what string) *ComboError {
	return &ComboError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", what),
		Details: map[string]any{"identifier": what},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ComboError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ComboError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// Is checks if an error is (or wraps) a ComboError with the given code.
func Is(err error, code ErrorCode) bool {
	var cErr *ComboError
	if stderrors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// As returns the ComboError inside err, or nil.
func As(err error) *ComboError {
	var cErr *ComboError
	if stderrors.As(err, &cErr) {
		return cErr
	}
	return nil
}

// Describe renders err as "[CODE] message" when it carries a code, and as
// the plain error text otherwise.
func Describe(err error) string {
	if cErr := As(err); cErr != nil {
		return fmt.Sprintf("[%s] %s", cErr.Code, cErr.Message)
	}
	return err.Error()
}
