package dto

import (
	"net/http"
	"strings"
)

// API error codes. Domain codes reach the wire as ERR_<domain code>, so
// NOT_FOUND becomes ERR_NOT_FOUND and INVALID_AMOUNT becomes ERR_INVALID_AMOUNT.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeInvalidID       = "ERR_INVALID_ID"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeProtected           = "ERR_PROTECTED"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
)

const (
	codePrefix    = "ERR_"
	invalidPrefix = "ERR_INVALID_"
)

var statusByCode = map[string]int{
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeRequestTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeProtected:           http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
}

// aliases are domain spellings that do not follow the ERR_<code> rule.
var aliases = map[string]string{
	"VALIDATION_ERROR": ErrCodeValidation,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// GetHTTPStatus maps an API code to its status. Unlisted ERR_INVALID_* codes
// are field errors (400); anything else unlisted is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	if strings.HasPrefix(code, invalidPrefix) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode turns a domain code into its API form.
func NormalizeErrorCode(code string) string {
	switch {
	case code == "":
		return ErrCodeUnknown
	case strings.HasPrefix(code, codePrefix):
		return code
	}
	if alias, ok := aliases[code]; ok {
		return alias
	}
	return codePrefix + code
}
