// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrDataSourceUnavailable = errors.New("market data source unavailable")
	ErrInsufficientHistory   = errors.New("insufficient price history")
	ErrDataNotFound          = errors.New("data not found")
	ErrDatabaseError         = errors.New("database error")
	ErrConfigInvalid         = errors.New("invalid configuration")
)

// ParameterError represents a scenario-parameter validation failure. It is
// fatal to the forecast call; the caller must fix the input.
type ParameterError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// NewParameterError creates a new ParameterError.
func NewParameterError(field string, value interface{}, message string) *ParameterError {
	return &ParameterError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// DataSourceError represents a market-data provider failure. It is recovered
// locally by falling back to synthetic data and is never fatal to a forecast.
type DataSourceError struct {
	Source string
	Err    error
}

func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data source error [%s]: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("data source error [%s]", e.Source)
}

// Unwrap matches both the sentinel and the underlying cause, so callers can
// test errors.Is(err, ErrDataSourceUnavailable) as well as the concrete
// failure.
func (e *DataSourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDataSourceUnavailable}
	}
	return []error{ErrDataSourceUnavailable, e.Err}
}

// NewDataSourceError creates a new DataSourceError.
func NewDataSourceError(source string, err error) *DataSourceError {
	return &DataSourceError{
		Source: source,
		Err:    err,
	}
}

// StoreError represents a persistence failure in the forecast journal.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
