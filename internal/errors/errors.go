package errors

import (
	"errors"
	"fmt"

	"phonolab/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    CodeFor(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise derives one
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeFor(err)
}

// Predefined error codes
const (
	CodeConfigInvalid          = "CONFIG_INVALID"
	CodeInsufficientData       = "INSUFFICIENT_DATA"
	CodeInsufficientSampleSize = "INSUFFICIENT_SAMPLE_SIZE"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeInvalidParameter       = "INVALID_PARAMETER"
	CodeModelNotTrained        = "MODEL_NOT_TRAINED"
	CodeCorpusUnreadable       = "CORPUS_UNREADABLE"
	CodeInternalError          = "INTERNAL_ERROR"
)

// CodeFor maps domain sentinel errors onto wire-level codes
func CodeFor(err error) string {
	switch {
	case errors.Is(err, core.ErrInsufficientSampleSize):
		return CodeInsufficientSampleSize
	case errors.Is(err, core.ErrInsufficientData):
		return CodeInsufficientData
	case errors.Is(err, core.ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, core.ErrInvalidParameter):
		return CodeInvalidParameter
	case errors.Is(err, core.ErrModelNotTrained):
		return CodeModelNotTrained
	default:
		return CodeInternalError
	}
}

// Common error constructors

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func CorpusUnreadable(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeCorpusUnreadable,
		Message: fmt.Sprintf("cannot read corpus %s", path),
		Cause:   cause,
	}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
