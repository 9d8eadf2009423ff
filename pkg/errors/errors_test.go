package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNewValidationError_RecordsCallSite(t *testing.T) {
	err := NewValidationError("Invalid file type. Only PDFs are allowed.", "notes.txt")

	if err.File != "errors_test.go" {
		t.Fatalf("expected file errors_test.go, got %q", err.File)
	}
	if err.Line == 0 {
		t.Fatalf("expected a line number")
	}
	if err.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, err.StatusCode)
	}
	if !strings.HasPrefix(err.Error(), "Error in [errors_test.go] at line [") {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "(notes.txt)") {
		t.Fatalf("expected details in error string: %s", err.Error())
	}
}

func TestProcessingError_Unwraps(t *testing.T) {
	cause := stderrors.New("corrupt xref table")
	err := NewProcessingError("Could not process PDF: a.pdf", cause)

	if !stderrors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "corrupt xref table") {
		t.Fatalf("expected cause text in error string: %s", err.Error())
	}
}

func TestWrap_KeepsTypeOfAppError(t *testing.T) {
	inner := NewNotFoundError("session not found", nil)
	wrapped := Wrap(inner, "Failed to list PDFs")

	if wrapped.Type != ErrorTypeNotFound {
		t.Fatalf("expected not_found type, got %s", wrapped.Type)
	}
	if GetStatusCode(wrapped) != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", GetStatusCode(wrapped))
	}
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	wrapped := Wrap(stderrors.New("disk full"), "Failed to save PDF")

	if wrapped.Type != ErrorTypeInternal {
		t.Fatalf("expected internal type, got %s", wrapped.Type)
	}
}

func TestIsTypeAndStatus_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewConfigError("config file not found", nil))

	if !IsType(err, ErrorTypeConfig) {
		t.Fatalf("expected config error type through wrapping")
	}
	if IsType(err, ErrorTypeValidation) {
		t.Fatalf("did not expect validation type")
	}
	if GetStatusCode(stderrors.New("plain")) != http.StatusInternalServerError {
		t.Fatalf("expected 500 for plain errors")
	}
}

func TestMessage(t *testing.T) {
	if got := Message(NewValidationError("bad input"), "fallback"); got != "bad input" {
		t.Fatalf("expected app error message, got %q", got)
	}
	if got := Message(stderrors.New("boom"), "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestAppError_Location(t *testing.T) {
	err := NewNotFoundError("Session not found", nil)
	want := fmt.Sprintf("errors_test.go:%d", err.Line)
	if got := err.Location(); got != want {
		t.Fatalf("expected location %q, got %q", want, got)
	}

	bare := &AppError{Message: "no call site"}
	if got := bare.Location(); got != "" {
		t.Fatalf("expected empty location, got %q", got)
	}
}
