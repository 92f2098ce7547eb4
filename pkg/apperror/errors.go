package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"error"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Request Validation (VAL) ----

// Validation returns a 400 error carrying the given message.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrDuplicate(entity, field string) *AppError {
	return New("VAL_002", fmt.Sprintf("%s with this %s already exists", entity, field), http.StatusBadRequest)
}

func ErrInvalidDate(param string) *AppError {
	return New("VAL_003", fmt.Sprintf("invalid %s", param), http.StatusBadRequest)
}

func ErrInvalidReference(refType string) *AppError {
	return New("VAL_004", fmt.Sprintf("invalid ref_type %q: must be Procurement or Sales", refType), http.StatusBadRequest)
}

// ---- Resources (RES) ----

func ErrNotFound(entity string) *AppError {
	return New("RES_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication & Authorization (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden(permission string) *AppError {
	return New("AUTH_002", fmt.Sprintf("permission %q denied", permission), http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an unexpected failure. The underlying message is
// surfaced to the client as-is.
func InternalError(err error) *AppError {
	msg := "Internal server error"
	if err != nil {
		msg = err.Error()
	}
	return Wrap("SYS_001", msg, http.StatusInternalServerError, err)
}
