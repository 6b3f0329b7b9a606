package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Sample-size errors
	ErrInsufficientData       = errors.New("insufficient data for analysis")
	ErrInsufficientSampleSize = fmt.Errorf("%w: labeled corpus too small", ErrInsufficientData)

	// Argument errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Model lifecycle errors
	ErrModelNotTrained = errors.New("no trained model available")

	// Determinism errors
	ErrSeedMismatch = errors.New("seed mismatch")
)

// Error constructors with context

func NewInsufficientDataError(op string, need, got int) error {
	return fmt.Errorf("%w: %s requires at least %d values, got %d", ErrInsufficientData, op, need, got)
}

func NewInsufficientSampleSizeError(need, got int) error {
	return fmt.Errorf("%w: need %d samples, got %d", ErrInsufficientSampleSize, need, got)
}

func NewInvalidInputError(op string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, op, reason)
}

func NewInvalidParameterError(name string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, name, reason)
}

// Error checking helpers

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidParameter)
}

func IsModelNotTrained(err error) bool {
	return errors.Is(err, ErrModelNotTrained)
}
