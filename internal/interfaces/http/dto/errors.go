package dto

import "net/http"

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeValidation   = "ERR_VALIDATION"
)

// Business rule error codes
const (
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	// Domain codes that map directly onto a status.
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"UNAUTHENTICATED":     http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"MODULE_DISABLED":     http.StatusForbidden,
	"FEATURE_DENIED":      http.StatusForbidden,
	"RESERVED_ROLE":       http.StatusUnprocessableEntity,
	"ROLE_IN_USE":         http.StatusConflict,
	"ROLE_EXISTS":         http.StatusConflict,
	"USER_EXISTS":         http.StatusConflict,
	"ROLE_NOT_FOUND":      http.StatusNotFound,
	"INVALID_WORKBOOK":    http.StatusBadRequest,
	"INVALID_SNAPSHOT":    http.StatusBadRequest,
	"INVALID_ROLE_NAME":   http.StatusBadRequest,
	"INVALID_SCOPE_LEVEL": http.StatusBadRequest,
	"INVALID_EMAIL":       http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"UNKNOWN_MODULE":      http.StatusBadRequest,
	"UNKNOWN_FEATURE":     http.StatusBadRequest,
	"INTERNAL_ERROR":      http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes default to 422 so new domain rules surface as client
// errors rather than server faults.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
