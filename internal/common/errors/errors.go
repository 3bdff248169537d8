// internal/common/errors/errors.go

// Package errors provides the standardized error types used by the
// assessment engine and its workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Fatal at setup: weights or category maxima violate their invariants.
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Embedding generation failed for a text block. Recovered locally by
	// zeroing that category's semantic contribution.
	ErrCodeEncodingFailed ErrorCode = "ENCODING_FAILED"

	// Manual score outside its declared range. Recovered locally by
	// clamping; recorded in the component rationale.
	ErrCodeInputOutOfRange ErrorCode = "INPUT_OUT_OF_RANGE"

	// Unrecoverable internal failure; the assessment produces no result.
	ErrCodeAssessmentFailed ErrorCode = "ASSESSMENT_FAILED"

	// Worker boundary codes.
	ErrCodeParseFailed      ErrorCode = "PARSE_ERROR"
	ErrCodeComparisonFailed ErrorCode = "COMPARISON_FAILED"
	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// NewConfigurationError creates a non-retryable setup error. Configuration
// problems are never silently corrected.
func NewConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid scoring configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEncodingError wraps a failed embedding computation. Category is empty
// when the failure happened below category level, in the store itself.
func NewEncodingError(category string, cause error) *StandardError {
	details := cause.Error()
	if category != "" {
		details = fmt.Sprintf("category %q: %v", category, cause)
	}
	return &StandardError{
		Code:      ErrCodeEncodingFailed,
		Message:   "Embedding generation failed",
		Details:   details,
		Retryable: true,
		Metadata:  map[string]interface{}{"category": category},
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewInputValidationError records an out-of-range caller value.
func NewInputValidationError(field string, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputOutOfRange,
		Message:   "Input value outside declared range",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewAssessmentError wraps an unrecoverable internal failure.
func NewAssessmentError(details string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentFailed,
		Message:   "Assessment failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewComparisonError signals that two results cannot be diffed.
func NewComparisonError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeComparisonFailed,
		Message:   "Assessment results are not comparable",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsCode reports whether err is (or wraps) a StandardError with the code.
func IsCode(err error, code ErrorCode) bool {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsConfigurationError reports a CONFIG_INVALID failure.
func IsConfigurationError(err error) bool { return IsCode(err, ErrCodeConfigInvalid) }

// IsEncodingError reports an ENCODING_FAILED failure.
func IsEncodingError(err error) bool { return IsCode(err, ErrCodeEncodingFailed) }

// IsAssessmentError reports an ASSESSMENT_FAILED failure.
func IsAssessmentError(err error) bool { return IsCode(err, ErrCodeAssessmentFailed) }
