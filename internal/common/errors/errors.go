// Package errors provides the standardized error taxonomy for the workout
// generation pipeline. Every failure the service can surface is one of a
// closed set of codes; each carries only the fields relevant to that code.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Code represents standardized internal error codes.
type Code string

const (
	// Caller-side errors.
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeConfiguration Code = "CONFIGURATION_ERROR"
	CodeRateLimited   Code = "RATE_LIMITED"

	// Upstream-malformed errors. All of these are recovered locally by the
	// deterministic fallback synthesizer.
	CodeEmptyResponse     Code = "EMPTY_RESPONSE"
	CodeMalformedJSON     Code = "MALFORMED_JSON"
	CodeMissingField      Code = "MISSING_REQUIRED_FIELD"
	CodeEmptyExerciseList Code = "EMPTY_EXERCISE_LIST"

	// Truncation is a warning-grade condition: the caller should retry with
	// a smaller request rather than treat the output as garbage.
	CodeTruncated Code = "TRUNCATED"

	// Transport errors.
	CodeNetwork Code = "NETWORK_ERROR"
	CodeTimeout Code = "TIMEOUT_ERROR"

	// Client-side plan persistence.
	CodeStorageCapacity Code = "STORAGE_CAPACITY_EXCEEDED"

	CodeInternal Code = "INTERNAL_ERROR"
)

// GenerationError is a structured application error.
type GenerationError struct {
	Code       Code          `json:"code"`
	Message    string        `json:"message"`
	Details    string        `json:"details,omitempty"`
	Retryable  bool          `json:"retryable"`
	RetryAfter time.Duration `json:"retryAfter,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("GenerationError[%s]: %s", e.Code, e.Message)
}

// NewValidationError creates a non-retryable bad-input error.
func NewValidationError(details string) *GenerationError {
	return &GenerationError{
		Code:      CodeValidation,
		Message:   "Invalid workout request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigurationError creates a non-retryable upstream-credentials error.
func NewConfigurationError(details string) *GenerationError {
	return &GenerationError{
		Code:      CodeConfiguration,
		Message:   "AI service not configured",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError creates a rate-limit error carrying a retry-after hint.
func NewRateLimitedError(retryAfter time.Duration) *GenerationError {
	return &GenerationError{
		Code:       CodeRateLimited,
		Message:    "Request limit reached",
		Details:    fmt.Sprintf("retry after %s", retryAfter),
		Retryable:  true,
		RetryAfter: retryAfter,
		Timestamp:  time.Now().UTC(),
	}
}

// NewEmptyResponseError creates an error for a blank model response.
func NewEmptyResponseError() *GenerationError {
	return &GenerationError{
		Code:      CodeEmptyResponse,
		Message:   "Model returned an empty response",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTruncatedError creates the token-limit-cutoff condition. Callers treat
// it as a suggestion to retry with a smaller request, not a hard failure.
func NewTruncatedError() *GenerationError {
	return &GenerationError{
		Code:      CodeTruncated,
		Message:   "Model response was cut off at the token limit",
		Details:   "retry with a shorter duration or fewer target muscles",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedJSONError creates a parse-failure error. The preview must
// already be bounded (see Preview); the full payload is never attached.
func NewMalformedJSONError(preview string) *GenerationError {
	return &GenerationError{
		Code:      CodeMalformedJSON,
		Message:   "Model response is not valid JSON",
		Details:   preview,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingFieldError creates an error for an absent mandatory field.
func NewMissingFieldError(field string) *GenerationError {
	return &GenerationError{
		Code:      CodeMissingField,
		Message:   "Model response is missing a required field",
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyExerciseListError creates an error for a structurally valid
// response whose exercises array is empty.
func NewEmptyExerciseListError() *GenerationError {
	return &GenerationError{
		Code:      CodeEmptyExerciseList,
		Message:   "Model response contains no exercises",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNetworkError creates a retryable transport error.
func NewNetworkError(service string, err error) *GenerationError {
	return &GenerationError{
		Code:      CodeNetwork,
		Message:   fmt.Sprintf("Network error calling %s", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTimeoutError creates a retryable timeout error.
func NewTimeoutError(service string) *GenerationError {
	return &GenerationError{
		Code:      CodeTimeout,
		Message:   fmt.Sprintf("Service %s timed out", service),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageCapacityError creates the all-tiers-exhausted persistence error.
// Non-fatal: the plan can always be regenerated.
func NewStorageCapacityError(reason string) *GenerationError {
	return &GenerationError{
		Code:      CodeStorageCapacity,
		Message:   "Plan could not be stored in any tier",
		Details:   reason,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unclassified failure.
func NewInternalError(err error) *GenerationError {
	return &GenerationError{
		Code:      CodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the taxonomy code from any error, normalizing foreign
// errors to CodeInternal.
func CodeOf(err error) Code {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Code
	}
	return CodeInternal
}

// IsUpstreamMalformed reports whether the code belongs to the family of
// normalization failures the orchestrator recovers from via the local
// fallback synthesizer.
func IsUpstreamMalformed(code Code) bool {
	switch code {
	case CodeEmptyResponse, CodeMalformedJSON, CodeMissingField, CodeEmptyExerciseList:
		return true
	}
	return false
}

// HTTPStatus maps an error code to the response status of the HTTP surface.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return 400
	case CodeConfiguration:
		return 503
	case CodeRateLimited:
		return 429
	case CodeEmptyResponse, CodeMalformedJSON, CodeMissingField, CodeEmptyExerciseList, CodeTruncated:
		return 502
	case CodeTimeout:
		return 504
	case CodeNetwork:
		return 503
	default:
		return 500
	}
}

const previewLimit = 200

// Preview returns a diagnostics excerpt bounded to at most limit characters
// from each end of raw, so log and error payload sizes stay bounded no
// matter how large the model output was.
func Preview(raw string, limit int) string {
	if limit <= 0 {
		limit = previewLimit
	}
	runes := []rune(raw)
	if len(runes) <= 2*limit {
		return raw
	}
	return string(runes[:limit]) + " ... " + string(runes[len(runes)-limit:])
}
