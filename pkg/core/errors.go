// Package core provides the execution model shared by the harness layers:
// error categories, structured errors, and artifact capture policy.
package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies a failure for retry decisions and reporting.
type ErrorCategory int

const (
	ErrCategoryNone       ErrorCategory = iota // No error
	ErrCategoryAssertion                       // Element not found, text mismatch, wrong screen
	ErrCategoryTimeout                         // Operation timed out
	ErrCategoryConnection                      // Device or automation server unreachable
	ErrCategoryApp                             // App crashed, not installed, failed to start
	ErrCategoryConfig                          // Invalid configuration, missing required entry
)

// String returns the string representation of ErrorCategory.
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryAssertion:
		return "assertion"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategoryConnection:
		return "connection"
	case ErrCategoryApp:
		return "app"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ExecutionError represents a structured error with category and details.
type ExecutionError struct {
	Category ErrorCategory
	Code     string // Machine-readable code: element_not_found, timeout, etc.
	Message  string // Human-readable message
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is matches against the predeclared sentinel with the same code, so
// errors.Is(err, core.ErrElementNotFound) works on derived copies.
func (e *ExecutionError) Is(target error) bool {
	var t *ExecutionError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message.
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Cause:    e.Cause,
	}
}

// Predefined errors used across the harness.
var (
	// Assertion errors
	ErrElementNotFound = &ExecutionError{
		Category: ErrCategoryAssertion,
		Code:     "element_not_found",
		Message:  "element not found",
	}
	ErrElementNotVisible = &ExecutionError{
		Category: ErrCategoryAssertion,
		Code:     "element_not_visible",
		Message:  "element not visible",
	}
	ErrTextMismatch = &ExecutionError{
		Category: ErrCategoryAssertion,
		Code:     "text_mismatch",
		Message:  "text does not match expected value",
	}
	ErrWrongScreen = &ExecutionError{
		Category: ErrCategoryAssertion,
		Code:     "wrong_screen",
		Message:  "expected screen is not displayed",
	}

	// Timeout errors
	ErrTimeout = &ExecutionError{
		Category: ErrCategoryTimeout,
		Code:     "timeout",
		Message:  "operation timed out",
	}

	// Connection errors
	ErrDeviceUnreachable = &ExecutionError{
		Category: ErrCategoryConnection,
		Code:     "device_unreachable",
		Message:  "device is not reachable over adb",
	}
	ErrServerUnreachable = &ExecutionError{
		Category: ErrCategoryConnection,
		Code:     "server_unreachable",
		Message:  "could not connect to automation server",
	}

	// App errors
	ErrAppNotInstalled = &ExecutionError{
		Category: ErrCategoryApp,
		Code:     "app_not_installed",
		Message:  "application is not installed",
	}
	ErrAppStartFailed = &ExecutionError{
		Category: ErrCategoryApp,
		Code:     "app_start_failed",
		Message:  "application failed to start",
	}

	// Config errors
	ErrUnknownDevice = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "unknown_device",
		Message:  "no configuration found for device",
	}
	ErrUnknownAccount = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "unknown_account",
		Message:  "no credentials found for account",
	}
)

// NewExecutionError creates a new ExecutionError with the given parameters.
func NewExecutionError(category ErrorCategory, code, message string) *ExecutionError {
	return &ExecutionError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// CategoryOf extracts the error category from an error chain.
// Plain errors without an ExecutionError default to the assertion category,
// which keeps unexpected test failures retryable.
func CategoryOf(err error) ErrorCategory {
	if err == nil {
		return ErrCategoryNone
	}
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.Category
	}
	return ErrCategoryAssertion
}

// IsAssertion reports whether the error is a test-level assertion failure,
// as opposed to an infrastructure error.
func IsAssertion(err error) bool {
	return CategoryOf(err) == ErrCategoryAssertion
}
