package types

import (
	"errors"
	"testing"
)

func TestError_ChainingAndHelpers(t *testing.T) {
	t.Parallel()

	root := errors.New("root")
	err := NewError(ErrTransport, "generation request failed").
		WithCause(root).
		WithHTTPStatus(502).
		WithRetryable(true)

	if GetErrorCode(err) != ErrTransport {
		t.Fatalf("expected code %s, got %s", ErrTransport, GetErrorCode(err))
	}
	if !IsRetryable(err) {
		t.Fatalf("expected retryable")
	}
	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is unwrap to root")
	}
	if got := err.Error(); got == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestError_PlainHelpers(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain failure")
	if IsRetryable(plain) {
		t.Fatalf("plain errors are never retryable")
	}
	if GetErrorCode(plain) != "" {
		t.Fatalf("plain errors carry no code")
	}
	if ErrorMessage(plain) != "plain failure" {
		t.Fatalf("expected fallback to Error()")
	}
	if ErrorMessage(nil) != "" {
		t.Fatalf("nil error has no message")
	}
}

func TestErrorMessage_Structured(t *testing.T) {
	t.Parallel()

	err := NewError(ErrGenerationFailed, "Model generation failed").WithCause(errors.New("upstream"))
	if ErrorMessage(err) != "Model generation failed" {
		t.Fatalf("expected structured message, got %q", ErrorMessage(err))
	}
}
