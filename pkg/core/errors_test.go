package core

import (
	"errors"
	"strings"
	"testing"
)

func TestAutomationError_Error(t *testing.T) {
	err := &AutomationError{
		Kind:    KindElementNotFound,
		Code:    "test_error",
		Message: "test message",
	}

	if got := err.Error(); got != "test message" {
		t.Errorf("Error() = %q, want %q", got, "test message")
	}
}

func TestAutomationError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AutomationError{
		Kind:    KindPlatformError,
		Code:    "test_error",
		Message: "test message",
		Cause:   cause,
	}

	got := err.Error()
	if !strings.Contains(got, "test message") {
		t.Errorf("Error() = %q, should contain 'test message'", got)
	}
	if !strings.Contains(got, "underlying error") {
		t.Errorf("Error() = %q, should contain 'underlying error'", got)
	}
}

func TestAutomationError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := ErrPlatformError.WithCause(cause)

	if got := errors.Unwrap(err); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should match the cause")
	}
}

func TestAutomationError_IsMatchesCopies(t *testing.T) {
	err := ErrTimeout.WithMessage("timed out after 5s waiting for role:button")

	if !errors.Is(err, ErrTimeout) {
		t.Error("WithMessage copy should still match ErrTimeout")
	}
	if errors.Is(err, ErrElementNotFound) {
		t.Error("timeout error must not match ErrElementNotFound")
	}
}

func TestAutomationError_WithDetails(t *testing.T) {
	base := ErrElementNotFound.WithDetails(map[string]interface{}{"selector": "role:button"})
	merged := base.WithDetails(map[string]interface{}{"timeout_ms": 500})

	if base.Details["timeout_ms"] != nil {
		t.Error("WithDetails must not mutate the receiver")
	}
	if merged.Details["selector"] != "role:button" {
		t.Errorf("merged details lost selector: %v", merged.Details)
	}
	if merged.Details["timeout_ms"] != 500 {
		t.Errorf("merged details lost timeout_ms: %v", merged.Details)
	}
	if !errors.Is(merged, ErrElementNotFound) {
		t.Error("WithDetails copy should still match the sentinel")
	}
}

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindNone, "none"},
		{KindElementNotFound, "element_not_found"},
		{KindTimeout, "timeout"},
		{KindPermissionDenied, "permission_denied"},
		{KindPlatformError, "platform_error"},
		{KindUnsupportedOperation, "unsupported_operation"},
		{KindUnsupportedPlatform, "unsupported_platform"},
		{KindInvalidArgument, "invalid_argument"},
		{KindInternal, "internal_error"},
		{ErrorKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPredefinedErrorKinds(t *testing.T) {
	tests := []struct {
		err  *AutomationError
		kind ErrorKind
	}{
		{ErrElementNotFound, KindElementNotFound},
		{ErrTimeout, KindTimeout},
		{ErrPermissionDenied, KindPermissionDenied},
		{ErrPlatformError, KindPlatformError},
		{ErrUnsupportedOperation, KindUnsupportedOperation},
		{ErrUnsupportedPlatform, KindUnsupportedPlatform},
		{ErrInvalidArgument, KindInvalidArgument},
		{ErrInternal, KindInternal},
	}

	for _, tt := range tests {
		if tt.err.Kind != tt.kind {
			t.Errorf("%s: kind = %v, want %v", tt.err.Code, tt.err.Kind, tt.kind)
		}
		if tt.err.Code != tt.kind.String() {
			t.Errorf("%s: code %q should match kind string %q", tt.err.Message, tt.err.Code, tt.kind.String())
		}
	}
}
