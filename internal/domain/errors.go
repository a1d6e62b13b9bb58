package domain

import "fmt"

// Error types for consistent error handling across the report service.

// ErrNotFound indicates a specific referenced id does not exist upstream.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrServiceUnavailable indicates a backing service could not serve the
// call: circuit open, timed out, or otherwise unreachable.
type ErrServiceUnavailable struct {
	Service string
	Err     error
}

func (e *ErrServiceUnavailable) Error() string {
	return fmt.Sprintf("%s service unavailable: %v", e.Service, e.Err)
}

func (e *ErrServiceUnavailable) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker for a backing service is
// open and the call was short-circuited.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrTimeout indicates a call exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrValidation indicates a malformed request parameter.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}
