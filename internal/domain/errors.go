// Package domain provides canonical types and error taxonomy for the gateway.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of an API error.
type ErrorType string

const (
	// ErrorTypeInvalidRequest indicates a malformed or invalid request.
	ErrorTypeInvalidRequest ErrorType = "invalid_request"

	// ErrorTypeMissingCredential indicates a missing or unusable credential,
	// either the caller's token or a provider API key.
	ErrorTypeMissingCredential ErrorType = "missing_credential"

	// ErrorTypeDenied indicates the caller is authenticated but not allowed.
	ErrorTypeDenied ErrorType = "denied"

	// ErrorTypeNotFound indicates a resource or model was not found.
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeRateLimited indicates upstream rate limiting was triggered.
	ErrorTypeRateLimited ErrorType = "rate_limited"

	// ErrorTypeProviderExhausted indicates every provider candidate failed.
	ErrorTypeProviderExhausted ErrorType = "provider_exhausted"

	// ErrorTypeMalformedOutput indicates a provider reply that could not be
	// turned into structured content.
	ErrorTypeMalformedOutput ErrorType = "malformed_output"

	// ErrorTypeUpstreamUnavailable indicates a transport failure or 5xx from
	// an upstream collaborator. The caller should retry.
	ErrorTypeUpstreamUnavailable ErrorType = "upstream_unavailable"

	// ErrorTypeInternal indicates an internal server error.
	ErrorTypeInternal ErrorType = "internal"
)

// ErrorCode provides additional specificity beyond the error type.
type ErrorCode string

const (
	ErrorCodeInvalidAPIKey       ErrorCode = "invalid_api_key"
	ErrorCodeInvalidToken        ErrorCode = "invalid_token"
	ErrorCodeModelNotFound       ErrorCode = "model_not_found"
	ErrorCodeRateLimitExceeded   ErrorCode = "rate_limit_exceeded"
	ErrorCodeEmptyCompletion     ErrorCode = "empty_completion"
	ErrorCodeNoStructure         ErrorCode = "no_structure"
	ErrorCodeMalformedStructure  ErrorCode = "malformed_structure"
	ErrorCodePromptBudget        ErrorCode = "prompt_budget_exceeded"
	ErrorCodeCandidatesExhausted ErrorCode = "candidates_exhausted"
	ErrorCodeAdminRequired       ErrorCode = "admin_required"
	ErrorCodeTenantRequired      ErrorCode = "tenant_required"
)

// APIError is the canonical error returned by the core operations. Raw
// provider or upstream error text stays in Message for operator diagnostics
// and is never written to end-user responses.
type APIError struct {
	// Type is the category of error
	Type ErrorType `json:"type"`

	// Code is an optional specific error code
	Code ErrorCode `json:"code,omitempty"`

	// Message is the human-readable error message
	Message string `json:"message"`

	// StatusCode is the suggested HTTP status code
	StatusCode int `json:"-"`

	// Provider identifies the candidate the error originated from, if any
	Provider string `json:"-"`

	// Err is the wrapped cause, if any
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the appropriate HTTP status code for this error.
func (e *APIError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}

	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeMissingCredential:
		return http.StatusUnauthorized
	case ErrorTypeDenied:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeRateLimited:
		return http.StatusTooManyRequests
	case ErrorTypeUpstreamUnavailable:
		return http.StatusBadGateway
	case ErrorTypeProviderExhausted, ErrorTypeMalformedOutput, ErrorTypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAPIError creates a new API error.
func NewAPIError(errType ErrorType, message string) *APIError {
	return &APIError{
		Type:    errType,
		Message: message,
	}
}

// WithCode adds an error code to the error.
func (e *APIError) WithCode(code ErrorCode) *APIError {
	e.Code = code
	return e
}

// WithStatusCode sets a specific HTTP status code.
func (e *APIError) WithStatusCode(code int) *APIError {
	e.StatusCode = code
	return e
}

// WithProvider records the originating provider candidate.
func (e *APIError) WithProvider(name string) *APIError {
	e.Provider = name
	return e
}

// WithCause wraps the underlying error.
func (e *APIError) WithCause(err error) *APIError {
	e.Err = err
	return e
}

// AsAPIError unwraps err into an *APIError if it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ErrorTypeOf classifies an arbitrary error. Errors that don't carry an
// APIError are treated as transport-level upstream failures.
func ErrorTypeOf(err error) ErrorType {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Type
	}
	return ErrorTypeUpstreamUnavailable
}

// Convenience constructors for common errors

// ErrInvalidRequest creates an invalid request error.
func ErrInvalidRequest(message string) *APIError {
	return NewAPIError(ErrorTypeInvalidRequest, message)
}

// ErrMissingCredential creates a missing credential error.
func ErrMissingCredential(message string) *APIError {
	return NewAPIError(ErrorTypeMissingCredential, message)
}

// ErrDenied creates an authorization denial.
func ErrDenied(message string) *APIError {
	return NewAPIError(ErrorTypeDenied, message)
}

// ErrNotFound creates a not found error.
func ErrNotFound(message string) *APIError {
	return NewAPIError(ErrorTypeNotFound, message)
}

// ErrRateLimited creates a rate limit error.
func ErrRateLimited(message string) *APIError {
	return NewAPIError(ErrorTypeRateLimited, message).
		WithCode(ErrorCodeRateLimitExceeded)
}

// ErrProviderExhausted creates an exhaustion error wrapping the last
// observed candidate failure for diagnostics.
func ErrProviderExhausted(message string, last error) *APIError {
	return NewAPIError(ErrorTypeProviderExhausted, message).
		WithCode(ErrorCodeCandidatesExhausted).
		WithCause(last)
}

// ErrMalformedOutput creates a malformed provider output error.
func ErrMalformedOutput(message string) *APIError {
	return NewAPIError(ErrorTypeMalformedOutput, message)
}

// ErrUpstreamUnavailable creates an upstream transport failure error.
func ErrUpstreamUnavailable(message string) *APIError {
	return NewAPIError(ErrorTypeUpstreamUnavailable, message)
}

// ErrInternal creates an internal server error.
func ErrInternal(message string) *APIError {
	return NewAPIError(ErrorTypeInternal, message)
}
