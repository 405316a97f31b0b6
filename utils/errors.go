package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error. Code is the HTTP status that
// best describes the error kind.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequestError creates a 400 Bad Request error
func BadRequestError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

// UnauthorizedError creates a 401 Unauthorized error
func UnauthorizedError(message string, err error) *AppError {
	return NewAppError(http.StatusUnauthorized, message, err)
}

// ForbiddenError creates a 403 Forbidden error
func ForbiddenError(message string, err error) *AppError {
	return NewAppError(http.StatusForbidden, message, err)
}

// NotFoundError creates a 404 Not Found error
func NotFoundError(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, message, err)
}

// ConflictError creates a 409 Conflict error
func ConflictError(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

// ErrorKind groups errors the way callers need to tell them apart
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NotFound"
	KindInvalid      ErrorKind = "Invalid"
	KindConflict     ErrorKind = "Conflict"
	KindUnauthorized ErrorKind = "Unauthorized"
	KindInternal     ErrorKind = "Internal"
)

// Kind classifies err by the AppError found in its chain
func Kind(err error) ErrorKind {
	appErr := GetAppError(err)
	if appErr == nil {
		return KindInternal
	}
	switch appErr.Code {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindInvalid
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	}
	return KindInternal
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	return GetAppError(err) != nil
}

// GetAppError returns the first AppError in the error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return Kind(err) == KindNotFound
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return Kind(err) == KindConflict
}

// IsBadRequestError checks if an error is a bad request error
func IsBadRequestError(err error) bool {
	return Kind(err) == KindInvalid
}
