// Package errors defines the categorized error type used across the
// sales analytics pipeline.
//
// Record-level problems (malformed lines, failed business rules,
// catalog misses) are deliberately NOT represented as errors: the
// pipeline counts and skips them. This package covers the failures that
// do surface to the caller (unreadable files, broken configuration,
// catalog endpoint trouble) and maps each category to a process exit
// code for the CLI.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryProcessing    ErrorCategory = "processing"
	CategoryNetwork       ErrorCategory = "network"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeFileRead       ErrorCode = "file_read"
	CodeFileWrite      ErrorCode = "file_write"
	CodeDirectoryError ErrorCode = "directory_error"

	// Parse errors
	CodeInvalidFormat   ErrorCode = "invalid_format"
	CodeWrongFieldCount ErrorCode = "wrong_field_count"
	CodeInvalidNumber   ErrorCode = "invalid_number"

	// Validation errors
	CodeInvalidQuantity ErrorCode = "invalid_quantity"
	CodeInvalidPrice    ErrorCode = "invalid_price"
	CodeBadPrefix       ErrorCode = "bad_prefix"
	CodeMissingField    ErrorCode = "missing_field"
	CodeEmptyInput      ErrorCode = "empty_input"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Processing errors
	CodeProcessingError ErrorCode = "processing_error"

	// Network errors
	CodeConnectionFailed ErrorCode = "connection_failed"
	CodeTimeout          ErrorCode = "timeout"
	CodeBadStatus        ErrorCode = "bad_status"
	CodeBadResponse      ErrorCode = "bad_response"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// AnalyticsError is the base error type for all application errors
type AnalyticsError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *AnalyticsError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *AnalyticsError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *AnalyticsError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryProcessing, CategoryInternal:
		return 5
	case CategoryNetwork:
		return 6
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *AnalyticsError) WithContext(key string, value interface{}) *AnalyticsError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *AnalyticsError) WithSuggestion(suggestion string) *AnalyticsError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AnalyticsError
func New(category ErrorCategory, code ErrorCode, message string) *AnalyticsError {
	return &AnalyticsError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with AnalyticsError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *AnalyticsError {
	if err == nil {
		return nil
	}

	return &AnalyticsError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *AnalyticsError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeFileRead:
		message = fmt.Sprintf("failed to read file: %s", path)
		suggestion = "check that the file is readable and not corrupted"
	case CodeFileWrite:
		message = fmt.Sprintf("failed to write file: %s", path)
		suggestion = "ensure the output directory exists and is writable"
	case CodeDirectoryError:
		message = fmt.Sprintf("directory error: %s", path)
		suggestion = "ensure the directory exists and is accessible"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ParseError creates a parsing-related error for a specific line
func ParseError(code ErrorCode, file string, line int, value string, err error) *AnalyticsError {
	var message string
	var suggestion string

	switch code {
	case CodeWrongFieldCount:
		message = fmt.Sprintf("wrong field count in file %s at line %d: '%s'", file, line, value)
		suggestion = "each line must contain exactly 8 pipe-separated fields"
	case CodeInvalidNumber:
		message = fmt.Sprintf("invalid numeric value in file %s at line %d: '%s'", file, line, value)
		suggestion = "quantity must be an integer and unit price a decimal number"
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid format in file %s at line %d: '%s'", file, line, value)
		suggestion = "check the line against the expected pipe-delimited layout"
	default:
		message = fmt.Sprintf("parse error in file %s at line %d", file, line)
		suggestion = "check the file format and data integrity"
	}

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file", file).
		WithContext("line", line).
		WithContext("value", value)
}

// ValidationError creates a validation-related error
func ValidationError(code ErrorCode, field string, value interface{}, err error) *AnalyticsError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidQuantity:
		message = fmt.Sprintf("invalid quantity in field '%s': %v", field, value)
		suggestion = "quantity must be a positive integer"
	case CodeInvalidPrice:
		message = fmt.Sprintf("invalid unit price in field '%s': %v", field, value)
		suggestion = "unit price must be a positive decimal number"
	case CodeBadPrefix:
		message = fmt.Sprintf("identifier '%s' has the wrong prefix: %v", field, value)
		suggestion = "transaction, product and customer ids must carry their reserved prefixes"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	case CodeEmptyInput:
		message = "no valid records after cleaning and validation"
		suggestion = "check the input file contents and validation criteria"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *AnalyticsError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this configuration setting or use a config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// ProcessingError creates an aggregation or enrichment processing error
func ProcessingError(code ErrorCode, operation string, err error) *AnalyticsError {
	message := fmt.Sprintf("processing error during %s", operation)
	suggestion := "review the data and configuration"

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryProcessing, code, message)
	} else {
		result = New(CategoryProcessing, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// NetworkError creates a network-related error
func NetworkError(code ErrorCode, endpoint string, err error) *AnalyticsError {
	var message string
	var suggestion string

	switch code {
	case CodeConnectionFailed:
		message = fmt.Sprintf("connection failed to %s", endpoint)
		suggestion = "check network connectivity and endpoint availability"
	case CodeTimeout:
		message = fmt.Sprintf("timeout connecting to %s", endpoint)
		suggestion = "increase the catalog timeout or check network speed"
	case CodeBadStatus:
		message = fmt.Sprintf("unexpected status from %s", endpoint)
		suggestion = "verify the catalog endpoint URL"
	case CodeBadResponse:
		message = fmt.Sprintf("malformed response from %s", endpoint)
		suggestion = "verify the endpoint returns the expected product JSON"
	default:
		message = fmt.Sprintf("network error: %s", endpoint)
		suggestion = "check network connection and try again"
	}

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryNetwork, code, message)
	} else {
		result = New(CategoryNetwork, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("endpoint", endpoint)
}

// InternalError creates an internal error
func InternalError(code ErrorCode, operation string, err error) *AnalyticsError {
	message := fmt.Sprintf("internal error during %s", operation)
	suggestion := "this is likely a bug - please report it with the error details"

	var result *AnalyticsError
	if err != nil {
		result = Wrap(err, CategoryInternal, code, message)
	} else {
		result = New(CategoryInternal, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// ErrorSummary provides a summary of multiple errors
type ErrorSummary struct {
	Total      int                   `json:"total"`
	ByCategory map[ErrorCategory]int `json:"by_category"`
	ByCode     map[ErrorCode]int     `json:"by_code"`
	Errors     []*AnalyticsError     `json:"errors"`
}

// NewErrorSummary creates a new error summary
func NewErrorSummary(errs []*AnalyticsError) *ErrorSummary {
	summary := &ErrorSummary{
		Total:      len(errs),
		ByCategory: make(map[ErrorCategory]int),
		ByCode:     make(map[ErrorCode]int),
		Errors:     errs,
	}

	for _, err := range errs {
		summary.ByCategory[err.Category]++
		summary.ByCode[err.Code]++
	}

	return summary
}

// Error returns a formatted error message for the summary
func (es *ErrorSummary) Error() string {
	if es.Total == 0 {
		return "no errors"
	}

	if es.Total == 1 {
		return es.Errors[0].Error()
	}

	var categories []string
	for category, count := range es.ByCategory {
		categories = append(categories, fmt.Sprintf("%s: %d", category, count))
	}

	return fmt.Sprintf("%d errors occurred (%s)", es.Total, strings.Join(categories, ", "))
}

// GetExitCode returns the highest priority exit code from all errors
func (es *ErrorSummary) GetExitCode() int {
	if es.Total == 0 {
		return 0
	}

	maxCode := 1
	for _, err := range es.Errors {
		if code := err.GetExitCode(); code > maxCode {
			maxCode = code
		}
	}

	return maxCode
}

// IsAnalyticsError checks if an error is an AnalyticsError
func IsAnalyticsError(err error) bool {
	_, ok := err.(*AnalyticsError)
	return ok
}

// AsAnalyticsError extracts an AnalyticsError from an error chain
func AsAnalyticsError(err error) (*AnalyticsError, bool) {
	var analyticsErr *AnalyticsError
	if errors.As(err, &analyticsErr) {
		return analyticsErr, true
	}
	return nil, false
}
