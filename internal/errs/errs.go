// Package errs defines the error taxonomy shared by services and handlers.
// Services return these typed errors; handlers map them to HTTP status
// codes without inspecting message strings.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError means the entity is absent or not owned by the caller.
// Ownership failures deliberately look identical to missing records.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// NotFound returns a NotFoundError for the named resource
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// InvalidStateError means the operation is not legal for the invoice's
// current status
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

// InvalidState returns an InvalidStateError with the given message
func InvalidState(format string, args ...interface{}) error {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// ValidationError means the input was malformed and nothing was mutated
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation returns a ValidationError with the given message
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// SignatureMismatchError means a payment proof failed authentication.
// No state change accompanies it.
type SignatureMismatchError struct{}

func (e *SignatureMismatchError) Error() string { return "payment signature mismatch" }

// SignatureMismatch returns a SignatureMismatchError
func SignatureMismatch() error {
	return &SignatureMismatchError{}
}

// GatewayError means the external payment provider was unreachable or
// rejected the call. Persisted state is exactly as it was before the attempt.
type GatewayError struct {
	Msg string
	Err error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Gateway wraps an external provider failure
func Gateway(msg string, err error) error {
	return &GatewayError{Msg: msg, Err: err}
}

// HTTPStatus maps an error from the taxonomy to its response status code
func HTTPStatus(err error) int {
	var (
		notFound  *NotFoundError
		invalid   *InvalidStateError
		valid     *ValidationError
		signature *SignatureMismatchError
		gateway   *GatewayError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &valid):
		return http.StatusBadRequest
	case errors.As(err, &signature):
		return http.StatusBadRequest
	case errors.As(err, &invalid):
		return http.StatusConflict
	case errors.As(err, &gateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to API callers. Gateway
// errors are flattened so provider internals never leak.
func PublicMessage(err error) string {
	var gateway *GatewayError
	if errors.As(err, &gateway) {
		return gateway.Msg
	}
	return err.Error()
}
