package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUpstream
	KindPersistence
)

// Stable machine-readable codes returned to clients.
const (
	CodeValidation  = "validation_error"
	CodeNotFound    = "not_found"
	CodeUpstream    = "upstream_error"
	CodePersistence = "persistence_error"
	CodeInternal    = "internal_error"
)

// AppError carries everything the HTTP boundary needs to answer a failed request.
type AppError struct {
	Kind       Kind   `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	StatusCode int    `json:"-"`

	// Set for KindUpstream only.
	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamBody   string `json:"upstream_body,omitempty"`

	Internal error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Internal }

func Validation(details string) *AppError {
	return &AppError{
		Kind:       KindValidation,
		Code:       CodeValidation,
		Message:    "Invalid request",
		Details:    details,
		StatusCode: http.StatusBadRequest,
	}
}

func NotFound(details string) *AppError {
	return &AppError{
		Kind:       KindNotFound,
		Code:       CodeNotFound,
		Message:    "Resource not found",
		Details:    details,
		StatusCode: http.StatusNotFound,
	}
}

func Upstream(upstreamStatus int, body string, err error) *AppError {
	return &AppError{
		Kind:           KindUpstream,
		Code:           CodeUpstream,
		Message:        "Point-of-sale API error",
		StatusCode:     http.StatusBadGateway,
		UpstreamStatus: upstreamStatus,
		UpstreamBody:   body,
		Internal:       err,
	}
}

func Persistence(details string, err error) *AppError {
	return &AppError{
		Kind:       KindPersistence,
		Code:       CodePersistence,
		Message:    "Storage error",
		Details:    details,
		StatusCode: http.StatusInternalServerError,
		Internal:   err,
	}
}

// As finds an *AppError in the chain. Anything else is reported as internal.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Kind:       KindInternal,
		Code:       CodeInternal,
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
		Internal:   err,
	}
}

func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// StatusCode is the HTTP status err maps to.
func StatusCode(err error) int {
	return As(err).StatusCode
}
