package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes shared by handlers and the problem mapper
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeNoData             = "NO_DATA"
	CodeIndicatorNotFound  = "INDICATOR_NOT_FOUND"
	CodeDatasetUnavailable = "DATASET_UNAVAILABLE"
	CodeDatasetCorrupted   = "DATASET_CORRUPTED"
)

// Predefined errors, all 404 Not Found
var (
	ErrNotFound = New(http.StatusNotFound, CodeNotFound, "The requested resource was not found")
	ErrNoData   = New(http.StatusNotFound, CodeNoData, "No data available for this combination of indicator, breakdown, and years.")
)

// Helper functions for specific error types

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// IndicatorNotFoundError reports an indicator name absent from the dataset
func IndicatorNotFoundError(indicator string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeIndicatorNotFound,
		fmt.Sprintf("Indicator %q is not present in the dataset", indicator), indicator)
}

// DatasetUnavailableError wraps a load failure. The message is the text shown to dashboard users.
func DatasetUnavailableError(message string, err error) *APIError {
	var details interface{}
	if err != nil {
		details = err.Error()
	}
	return NewWithDetails(http.StatusServiceUnavailable, CodeDatasetUnavailable, message, details)
}

// DatasetCorruptedError reports a dataset that failed an integrity check while cleaning
func DatasetCorruptedError(err error) *APIError {
	return NewWithDetails(http.StatusServiceUnavailable, CodeDatasetCorrupted, "Dataset failed integrity checks", err.Error())
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errors},
	)
}
