package domain

import (
	"errors"
	"fmt"
)

// Error codes. TRANSPORT_ERROR and SCHEMA_ERROR are raised by the API clients
// and abort the current round; the rest are returned by the stub server.
const (
	CodeTransport           = "TRANSPORT_ERROR"
	CodeSchema              = "SCHEMA_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeValidation          = "VALIDATION_ERROR"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeInternal            = "INTERNAL_ERROR"
)

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// ErrTransport reports a network failure (status 0) or an unexpected HTTP
// status from the API under test.
func ErrTransport(op string, status int, cause error) *AppError {
	msg := fmt.Sprintf("%s: request failed", op)
	if status != 0 {
		msg = fmt.Sprintf("%s: unexpected status %d", op, status)
	}
	return &AppError{Code: CodeTransport, Message: msg, Status: status, Cause: cause}
}

// ErrSchema reports a response body that is missing a field, carries a field
// of the wrong type, or carries a value the contract forbids.
func ErrSchema(op, field, reason string) *AppError {
	return &AppError{Code: CodeSchema, Message: fmt.Sprintf("%s: field %q %s", op, field, reason)}
}

// IsTransport reports whether err is, or wraps, a transport error.
func IsTransport(err error) bool { return hasCode(err, CodeTransport) }

// IsSchema reports whether err is, or wraps, a schema violation.
func IsSchema(err error) bool { return hasCode(err, CodeSchema) }

func hasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: CodeConflict, Message: msg, Status: 409}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, Status: 400}
}

func ErrInsufficientBalance() *AppError {
	return &AppError{Code: CodeInsufficientBalance, Message: "insufficient balance", Status: 400}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: msg, Status: 500, Cause: cause}
}
