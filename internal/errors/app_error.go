// Package errors defines the AppError returned by services and rendered by handlers.
package errors

import (
	"errors"
	"net/http"
)

const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeEmptyCart        = "EMPTY_CART"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

var statusByCode = map[string]int{
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeEmptyCart:        http.StatusBadRequest,
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeMethodNotAllowed: http.StatusMethodNotAllowed,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeTooManyRequests:  http.StatusTooManyRequests,
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeDatabaseError:    http.StatusInternalServerError,
}

// AppError carries a client facing message. Err is the cause and is never rendered.
type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds an AppError whose status follows from code. Unknown codes map to 500.
func New(code, message string) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	return &AppError{Code: code, Message: message, StatusCode: status}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func ValidationError(message string) *AppError { return New(ErrCodeValidation, message) }

func BadRequestError(message string) *AppError { return New(ErrCodeBadRequest, message) }

func NotFoundError(message string) *AppError { return New(ErrCodeNotFound, message) }

func UnauthorizedError(message string) *AppError { return New(ErrCodeUnauthorized, message) }

func ForbiddenError(message string) *AppError { return New(ErrCodeForbidden, message) }

func InternalError(message string) *AppError { return New(ErrCodeInternal, message) }

func DatabaseError(message string) *AppError { return New(ErrCodeDatabaseError, message) }

func TooManyRequestsError(message string) *AppError { return New(ErrCodeTooManyRequests, message) }

// EmptyCartError is returned when a checkout finds no cart lines.
func EmptyCartError(message string) *AppError { return New(ErrCodeEmptyCart, message) }

// ConflictError signals a serialization failure, the client may retry.
func ConflictError(message string) *AppError { return New(ErrCodeConflict, message) }

func MethodNotAllowedError(message string) *AppError { return New(ErrCodeMethodNotAllowed, message) }

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}
