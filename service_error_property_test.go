package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// TestServiceErrorFormatConsistency verifies that for any service name and
// operation name, the ServiceError format is consistent and Unwrap works.
func TestServiceErrorFormatConsistency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		service := rapid.String().Draw(t, "service")
		operation := rapid.String().Draw(t, "operation")
		errMsg := rapid.String().Draw(t, "errMsg")

		original := fmt.Errorf("%s", errMsg)
		wrapped := WrapError(service, operation, original)

		if wrapped == nil {
			t.Fatal("WrapError with non-nil error should return non-nil")
		}

		errStr := wrapped.Error()

		if service != "" && !strings.Contains(errStr, service) {
			t.Fatalf("Error() %q should contain service name %q", errStr, service)
		}
		if operation != "" && !strings.Contains(errStr, operation) {
			t.Fatalf("Error() %q should contain operation name %q", errStr, operation)
		}

		var se *ServiceError
		if !errors.As(wrapped, &se) {
			t.Fatal("wrapped error should be *ServiceError")
		}
		if se.Unwrap() != original {
			t.Fatal("Unwrap() should return the original error")
		}

		expected := fmt.Sprintf("[%s.%s] %s", service, operation, errMsg)
		if errStr != expected {
			t.Fatalf("Error() = %q, want %q", errStr, expected)
		}
	})
}

// TestWrapErrorNilReturnsNil verifies that WrapError with nil error always
// returns nil, regardless of service and operation names.
func TestWrapErrorNilReturnsNil(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		service := rapid.String().Draw(t, "service")
		operation := rapid.String().Draw(t, "operation")

		result := WrapError(service, operation, nil)
		if result != nil {
			t.Fatalf("WrapError(%q, %q, nil) should return nil, got %v", service, operation, result)
		}
	})
}

// TestServiceErrorFieldsPreserved verifies that ServiceError preserves the
// Service, Operation, and Err fields exactly as provided.
func TestServiceErrorFieldsPreserved(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		service := rapid.String().Draw(t, "service")
		operation := rapid.String().Draw(t, "operation")
		errMsg := rapid.String().Draw(t, "errMsg")

		original := fmt.Errorf("%s", errMsg)
		wrapped := WrapError(service, operation, original)

		var se *ServiceError
		if !errors.As(wrapped, &se) {
			t.Fatal("wrapped error should be *ServiceError")
		}

		if se.Service != service {
			t.Fatalf("Service = %q, want %q", se.Service, service)
		}
		if se.Operation != operation {
			t.Fatalf("Operation = %q, want %q", se.Operation, operation)
		}
		if se.Err != original {
			t.Fatal("Err should be the original error")
		}
	})
}
