package main

import "fmt"

// ServiceError is the unified service error type. Stage-typed failures let
// a caller tell a lookup problem from a render or archive problem.
type ServiceError struct {
	Service   string // service name
	Operation string // operation or stage name
	Err       error  // original error
}

// Error returns the formatted message: [Service.Operation] error message
func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s.%s] %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the original error, supporting errors.Is/errors.As chains.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// WrapError creates an error with service context. Returns nil for nil err.
func WrapError(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Service: service, Operation: operation, Err: err}
}
