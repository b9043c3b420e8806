// Package errors defines the error taxonomy shared by the index, the query
// parser and the public search facade. Every failure is one of two kinds:
// ErrInvalidArgument for malformed input and ErrOutOfRange for operations
// addressed to a document the index does not hold.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfRange      = errors.New("out of range")
)

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidArgumentf is shorthand for Newf(ErrInvalidArgument, ...).
func InvalidArgumentf(format string, args ...any) *AppError {
	return Newf(ErrInvalidArgument, format, args...)
}

// OutOfRangef is shorthand for Newf(ErrOutOfRange, ...).
func OutOfRangef(format string, args ...any) *AppError {
	return Newf(ErrOutOfRange, format, args...)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// Kind names the taxonomy bucket of err for logs and metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	default:
		return "internal"
	}
}
