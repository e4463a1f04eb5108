// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into ranges, one range per failure kind:
//   - Invalid argument (100-199): bad sizes, dates, prices and price types
//   - Not found (200-299): unknown symbols, positions, dates outside a series
//   - Out of range (300-399): periods or months outside a position's holding period
//   - Invalid operation (400-499): an operation the position variant or state does not support
//   - Inconsistent state (500-599): impossible internal conditions, always a bug in the engine
//   - Empty collection (600-699): statistics requested over empty position or factor sets
//   - Trader (700-799): trader facade failures wrapping one of the kinds above
//   - Storage (800-899): journal and data loading failures
//   - Configuration (900-999): configuration and version errors
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidSize, "invalid size")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeSymbolNotFound, "no series for symbol %s", symbol)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeTraderFailed, "can't sell position", originalErr)
//
//	// Check error code or kind anywhere in the chain
//	if errors.HasKind(err, errors.KindNotFound) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Annotatef wraps cause with a formatted message, keeping the code of cause so
// its kind is unchanged.
func Annotatef(cause error, format string, args ...any) *Error {
	return Wrapf(GetCode(cause), cause, format, args...)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Kind returns the failure kind of the error code.
func (e *Error) Kind() Kind {
	return KindOf(e.Code)
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// ChainHasCode checks if any *Error in err's cause chain carries code.
func ChainHasCode(err error, code ErrorCode) bool {
	for _, e := range chain(err) {
		if e.Code == code {
			return true
		}
	}

	return false
}

// HasKind checks if any *Error in err's cause chain belongs to kind.
// A trader failure wrapping a missing position reports both KindTrader and KindNotFound.
func HasKind(err error, kind Kind) bool {
	for _, e := range chain(err) {
		if e.Kind() == kind {
			return true
		}
	}

	return false
}

// RootKind returns the kind of the innermost *Error in err's chain.
func RootKind(err error) Kind {
	errs := chain(err)
	if len(errs) == 0 {
		return KindUnknown
	}

	return errs[len(errs)-1].Kind()
}

func chain(err error) []*Error {
	var errs []*Error

	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}

		errs = append(errs, e)
		err = e.Cause
	}

	return errs
}
