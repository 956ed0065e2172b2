package apperror

import "fmt"

type AppError struct {
	Code       string   // machine-readable code (e.g. INVALID_INPUT)
	Message    string   // user-facing message
	HTTPStatus int      // HTTP status code
	Details    []string // optional per-field details
	Err        error    // wrapped original error (optional)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap supports errors.Is/errors.As chains.
func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap creates an AppError that wraps an existing error.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// WithDetails returns a copy carrying per-field detail strings, so package-level
// sentinel values stay immutable.
func (e *AppError) WithDetails(details ...string) *AppError {
	clone := *e
	clone.Details = append([]string(nil), details...)
	return &clone
}
