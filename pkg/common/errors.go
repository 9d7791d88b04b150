package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies application errors for transport mapping and logging
type ErrorCode string

const (
	CodeNotFound        ErrorCode = "not_found"
	CodeBadRequest      ErrorCode = "bad_request"
	CodeUpstreamService ErrorCode = "upstream_service"
	CodeDecode          ErrorCode = "decode"
	CodePersistence     ErrorCode = "persistence"
	CodeInternal        ErrorCode = "internal"
)

// AppError is the application error type carrying a classification code
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code to an HTTP status code
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUpstreamService:
		return http.StatusBadGateway
	case CodeDecode, CodePersistence, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewNotFoundError creates an error for a missing domain record
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

// NewBadRequestError creates an error for invalid client input
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: CodeBadRequest, Message: message}
}

// NewUpstreamServiceError creates an error for a failed external service call
func NewUpstreamServiceError(message string, err error) *AppError {
	return &AppError{Code: CodeUpstreamService, Message: message, Err: err}
}

// NewDecodeError creates an error for an unparseable upstream payload
func NewDecodeError(message string, err error) *AppError {
	return &AppError{Code: CodeDecode, Message: message, Err: err}
}

// NewPersistenceError creates an error for a failed storage operation
func NewPersistenceError(message string, err error) *AppError {
	return &AppError{Code: CodePersistence, Message: message, Err: err}
}

// NewInternalServerError creates a generic internal error
func NewInternalServerError(message string, err error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Err: err}
}

// IsNotFound reports whether err is a not-found application error
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == CodeNotFound
}
