package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Ledger rejection codes, one per payment or plan validation failure
const (
	ErrCodeInvalidAmount           = "ERR_INVALID_AMOUNT"
	ErrCodeAlreadyPaid             = "ERR_ALREADY_PAID"
	ErrCodeExceedsRemaining        = "ERR_EXCEEDS_REMAINING"
	ErrCodeFirstPayExceedsTotal    = "ERR_FIRST_PAY_EXCEEDS_TOTAL"
	ErrCodeNothingOwed             = "ERR_NOTHING_OWED"
	ErrCodeExceedsReceiptRemaining = "ERR_EXCEEDS_RECEIPT_REMAINING"
	ErrCodeInvalidPlan             = "ERR_INVALID_PLAN"
	ErrCodeInvalidTransaction      = "ERR_INVALID_TRANSACTION"
)

// Report error codes
const (
	// ErrCodeInvalidPeriod is used when a report range is empty or inverted
	ErrCodeInvalidPeriod = "ERR_INVALID_PERIOD"
	// ErrCodeExportDisabled is used when no PDF renderer or storage is configured
	ErrCodeExportDisabled = "ERR_EXPORT_DISABLED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	// Ledger rejections -> 422 Unprocessable Entity
	ErrCodeInvalidAmount:           http.StatusUnprocessableEntity,
	ErrCodeAlreadyPaid:             http.StatusUnprocessableEntity,
	ErrCodeExceedsRemaining:        http.StatusUnprocessableEntity,
	ErrCodeFirstPayExceedsTotal:    http.StatusUnprocessableEntity,
	ErrCodeNothingOwed:             http.StatusUnprocessableEntity,
	ErrCodeExceedsReceiptRemaining: http.StatusUnprocessableEntity,
	ErrCodeInvalidPlan:             http.StatusUnprocessableEntity,
	ErrCodeInvalidTransaction:      http.StatusUnprocessableEntity,

	// Report errors
	ErrCodeInvalidPeriod:  http.StatusBadRequest,
	ErrCodeExportDisabled: http.StatusServiceUnavailable,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps old error codes to new standardized codes
// This is for backward compatibility with existing domain errors
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"ALREADY_EXISTS":            ErrCodeAlreadyExists,
	"INVALID_INPUT":             ErrCodeInvalidInput,
	"INVALID_STATE":             ErrCodeInvalidState,
	"UNAUTHORIZED":              ErrCodeUnauthorized,
	"FORBIDDEN":                 ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":      ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":          ErrCodeValidation,
	"BAD_REQUEST":               ErrCodeBadRequest,
	"INTERNAL_ERROR":            ErrCodeInternal,
	"REQUEST_TOO_LARGE":         ErrCodeRequestTooLarge,
	"INVALID_AMOUNT":            ErrCodeInvalidAmount,
	"ALREADY_PAID":              ErrCodeAlreadyPaid,
	"EXCEEDS_REMAINING":         ErrCodeExceedsRemaining,
	"FIRST_PAY_EXCEEDS_TOTAL":   ErrCodeFirstPayExceedsTotal,
	"NOTHING_OWED":              ErrCodeNothingOwed,
	"EXCEEDS_RECEIPT_REMAINING": ErrCodeExceedsReceiptRemaining,
	"INVALID_PLAN":              ErrCodeInvalidPlan,
	"INVALID_TRANSACTION":       ErrCodeInvalidTransaction,
	"INVALID_PERIOD":            ErrCodeInvalidPeriod,
	"EXPORT_DISABLED":           ErrCodeExportDisabled,
}

// NormalizeErrorCode converts a legacy error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
