package core

import (
	"fmt"
)

// ErrorKind classifies an automation failure into a fixed taxonomy.
type ErrorKind int

const (
	KindNone                 ErrorKind = iota // No error
	KindElementNotFound                       // Resolution or liveness failure
	KindTimeout                               // Polling exceeded the requested duration
	KindPermissionDenied                      // OS denied accessibility access
	KindPlatformError                         // Native API failure not otherwise classified
	KindUnsupportedOperation                  // Action not valid for this control type
	KindUnsupportedPlatform                   // Feature unavailable on this OS
	KindInvalidArgument                       // Malformed selector or bad condition name
	KindInternal                              // Engine invariant violation
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindElementNotFound:
		return "element_not_found"
	case KindTimeout:
		return "timeout"
	case KindPermissionDenied:
		return "permission_denied"
	case KindPlatformError:
		return "platform_error"
	case KindUnsupportedOperation:
		return "unsupported_operation"
	case KindUnsupportedPlatform:
		return "unsupported_platform"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInternal:
		return "internal_error"
	default:
		return "unknown"
	}
}

// AutomationError represents a structured error with kind and details
type AutomationError struct {
	Kind    ErrorKind
	Code    string                 // Machine-readable code: element_not_found, timeout, etc.
	Message string                 // Human-readable message
	Details map[string]interface{} // Additional context
	Cause   error                  // Underlying error
}

// Error implements the error interface
func (e *AutomationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AutomationError) Unwrap() error {
	return e.Cause
}

// Is matches errors by kind and code so copies made with WithMessage
// and friends still compare equal to the predefined sentinels.
func (e *AutomationError) Is(target error) bool {
	t, ok := target.(*AutomationError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause
func (e *AutomationError) WithCause(cause error) *AutomationError {
	return &AutomationError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *AutomationError) WithMessage(msg string) *AutomationError {
	return &AutomationError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: msg,
		Details: e.Details,
		Cause:   e.Cause,
	}
}

// WithMessagef returns a copy of the error with a formatted message
func (e *AutomationError) WithMessagef(format string, args ...interface{}) *AutomationError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithDetails returns a copy of the error with additional details
func (e *AutomationError) WithDetails(details map[string]interface{}) *AutomationError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AutomationError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message,
		Details: merged,
		Cause:   e.Cause,
	}
}

// Predefined errors, one per taxonomy kind
var (
	ErrElementNotFound = &AutomationError{
		Kind:    KindElementNotFound,
		Code:    "element_not_found",
		Message: "element not found",
	}
	ErrTimeout = &AutomationError{
		Kind:    KindTimeout,
		Code:    "timeout",
		Message: "operation timed out",
	}
	ErrPermissionDenied = &AutomationError{
		Kind:    KindPermissionDenied,
		Code:    "permission_denied",
		Message: "accessibility permission denied",
	}
	ErrPlatformError = &AutomationError{
		Kind:    KindPlatformError,
		Code:    "platform_error",
		Message: "platform API error",
	}
	ErrUnsupportedOperation = &AutomationError{
		Kind:    KindUnsupportedOperation,
		Code:    "unsupported_operation",
		Message: "operation not supported by this control",
	}
	ErrUnsupportedPlatform = &AutomationError{
		Kind:    KindUnsupportedPlatform,
		Code:    "unsupported_platform",
		Message: "feature unavailable on this platform",
	}
	ErrInvalidArgument = &AutomationError{
		Kind:    KindInvalidArgument,
		Code:    "invalid_argument",
		Message: "invalid argument",
	}
	ErrInternal = &AutomationError{
		Kind:    KindInternal,
		Code:    "internal_error",
		Message: "internal engine error",
	}
)

// NewAutomationError creates a new AutomationError with the given parameters
func NewAutomationError(kind ErrorKind, code, message string) *AutomationError {
	return &AutomationError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}
