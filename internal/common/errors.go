package common

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrUsage          = errors.New("usage error")
	ErrIO             = errors.New("i/o error")
	ErrParseInvariant = errors.New("parse invariant violation")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDatabase       = errors.New("database error")
)

// Error codes carried by AppError and reported by Classify.
const (
	CodeUsage     = "USAGE_ERROR"
	CodeIO        = "IO_ERROR"
	CodeInvariant = "PARSE_INVARIANT"
	CodeConfig    = "CONFIG_ERROR"
	CodeDatabase  = "DB_ERROR"
	CodeCanceled  = "CANCELED"
	CodeUnknown   = "UNKNOWN"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// UsageErrorf reports missing or malformed command line arguments.
func UsageErrorf(format string, args ...interface{}) error {
	return NewAppError(CodeUsage, fmt.Sprintf(format, args...), ErrUsage)
}

// IOError wraps a failure to read the input or write the output.
func IOError(message string, cause error) error {
	return NewAppError(CodeIO, message, fmt.Errorf("%w: %w", ErrIO, cause))
}

// InvariantErrorf reports a row that passed assembly but failed a later check.
func InvariantErrorf(format string, args ...interface{}) error {
	return NewAppError(CodeInvariant, fmt.Sprintf(format, args...), ErrParseInvariant)
}

// Classify maps an error onto one of the stable codes for logging.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	var app *AppError
	if errors.As(err, &app) && app.Code != "" {
		return app.Code
	}
	switch {
	case errors.Is(err, ErrUsage):
		return CodeUsage
	case errors.Is(err, ErrParseInvariant):
		return CodeInvariant
	case errors.Is(err, ErrDatabase):
		return CodeDatabase
	case errors.Is(err, ErrIO):
		return CodeIO
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	}
	var perr *os.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}
