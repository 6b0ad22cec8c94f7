package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestServiceError_Error(t *testing.T) {
	original := fmt.Errorf("document not found")
	se := &ServiceError{
		Service:   "Export",
		Operation: "lookup",
		Err:       original,
	}

	got := se.Error()
	expected := "[Export.lookup] document not found"
	if got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}
}

func TestServiceError_ErrorFormat(t *testing.T) {
	tests := []struct {
		name      string
		service   string
		operation string
		err       error
		want      string
	}{
		{
			name:      "basic error",
			service:   "Config",
			operation: "Load",
			err:       fmt.Errorf("file not found"),
			want:      "[Config.Load] file not found",
		},
		{
			name:      "empty service name",
			service:   "",
			operation: "Save",
			err:       fmt.Errorf("disk full"),
			want:      "[.Save] disk full",
		},
		{
			name:      "empty operation name",
			service:   "Export",
			operation: "",
			err:       fmt.Errorf("timeout"),
			want:      "[Export.] timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := &ServiceError{Service: tt.service, Operation: tt.operation, Err: tt.err}
			if got := se.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServiceError_Unwrap(t *testing.T) {
	original := fmt.Errorf("original error")
	se := &ServiceError{
		Service:   "Export",
		Operation: "write",
		Err:       original,
	}

	if unwrapped := se.Unwrap(); unwrapped != original {
		t.Errorf("Unwrap() returned different error: got %v, want %v", unwrapped, original)
	}
}

func TestServiceError_ErrorsIs(t *testing.T) {
	se := WrapError("Export", "entitlement", fmt.Errorf("%w: plan has no pptx access", ErrExportNotAllowed))

	if !errors.Is(se, ErrExportNotAllowed) {
		t.Error("errors.Is should find the wrapped sentinel error")
	}
}

func TestServiceError_ErrorsAs(t *testing.T) {
	original := fmt.Errorf("some error")
	wrapped := WrapError("Entitlement", "Load", original)

	var se *ServiceError
	if !errors.As(wrapped, &se) {
		t.Fatal("errors.As should find *ServiceError")
	}
	if se.Service != "Entitlement" {
		t.Errorf("Service = %q, want %q", se.Service, "Entitlement")
	}
	if se.Operation != "Load" {
		t.Errorf("Operation = %q, want %q", se.Operation, "Load")
	}
}

func TestWrapError_NilError(t *testing.T) {
	result := WrapError("Export", "dispatch", nil)
	if result != nil {
		t.Errorf("WrapError with nil err should return nil, got %v", result)
	}
}

func TestWrapError_NonNilError(t *testing.T) {
	original := fmt.Errorf("something failed")
	result := WrapError("Document", "Seed", original)

	if result == nil {
		t.Fatal("WrapError with non-nil err should return non-nil")
	}

	se, ok := result.(*ServiceError)
	if !ok {
		t.Fatal("WrapError should return *ServiceError")
	}
	if se.Service != "Document" {
		t.Errorf("Service = %q, want %q", se.Service, "Document")
	}
	if se.Operation != "Seed" {
		t.Errorf("Operation = %q, want %q", se.Operation, "Seed")
	}
	if se.Err != original {
		t.Error("Err should be the original error")
	}

	// Verify the formatted message contains service and operation
	msg := result.Error()
	if !strings.Contains(msg, "Document") || !strings.Contains(msg, "Seed") {
		t.Errorf("Error message should contain service and operation: %q", msg)
	}
}
