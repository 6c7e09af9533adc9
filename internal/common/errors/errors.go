// Package errors provides standardized error handling for the webhook HTTP surface.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// input errors
	ErrCodeInvalidPayload   ErrorCode = "INVALID_PAYLOAD"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// authorization errors
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeUnauthorizedSource ErrorCode = "UNAUTHORIZED_SOURCE"

	// downstream errors
	ErrCodeCRMAPIError      ErrorCode = "CRM_API_ERROR"
	ErrCodeCRMRequestFailed ErrorCode = "CRM_REQUEST_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Describe renders the message and details the way callers see them in responses.
func (e *StandardError) Describe() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

// HTTPStatus returns the status code the error is surfaced with.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

// ==========================
// 2. Error Constructors
// ==========================

func NewInvalidPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPayload,
		Message:   "Invalid webhook payload",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError reports required canonical fields that could not be extracted.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Required field validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnauthorizedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Unauthorized",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedSourceError rejects a webhook whose location id is not allowed.
func NewUnauthorizedSourceError(locationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorizedSource,
		Message:   "Unauthorized source location",
		Details:   fmt.Sprintf("locationId: %s", locationID),
		Retryable: false,
		Metadata:  map[string]interface{}{"locationId": locationID},
		Timestamp: time.Now().UTC(),
	}
}

// NewCRMAPIError wraps a non-2xx answer from the CRM.
func NewCRMAPIError(statusCode int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMAPIError,
		Message:   "Sub-account creation failed",
		Details:   fmt.Sprintf("%d - %s", statusCode, body),
		Retryable: false,
		Metadata:  map[string]interface{}{"statusCode": statusCode},
		Timestamp: time.Now().UTC(),
	}
}

// NewCRMRequestFailedError wraps transport level failures (timeouts, refused connections).
func NewCRMRequestFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMRequestFailed,
		Message:   "Error creating sub-account",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Survey webhook processing error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Integration
// ==========================

var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeInvalidPayload:     http.StatusBadRequest,
	ErrCodeValidationFailed:   http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeUnauthorizedSource: http.StatusForbidden,
	ErrCodeCRMAPIError:        http.StatusInternalServerError,
	ErrCodeCRMRequestFailed:   http.StatusInternalServerError,
	ErrCodeInternal:           http.StatusInternalServerError,
}

func HTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// CodeOf returns the error code of err, or "UNKNOWN_ERROR" for foreign errors.
func CodeOf(err error) string {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "UNAUTHORIZED"):
		return "AUTHORIZATION"
	case strings.HasPrefix(codeStr, "CRM"):
		return "DOWNSTREAM"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "INPUT"
	default:
		return "INTERNAL"
	}
}
