package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeProtected, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeInvalidID, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{"ERR_INVALID_AMOUNT", http.StatusBadRequest},
		{"ERR_INVALID_CLIENT", http.StatusBadRequest},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"PROTECTED", ErrCodeProtected},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"INVALID_AMOUNT", "ERR_INVALID_AMOUNT"},
		{"VALIDATION_ERROR", ErrCodeValidation},
		{"INTERNAL_ERROR", ErrCodeInternal},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainCodesMapToStatus(t *testing.T) {
	tests := map[string]int{
		"NOT_FOUND":            http.StatusNotFound,
		"ALREADY_EXISTS":       http.StatusConflict,
		"PROTECTED":            http.StatusConflict,
		"CONCURRENCY_CONFLICT": http.StatusConflict,
		"INVALID_INPUT":        http.StatusBadRequest,
		"INVALID_DATE":         http.StatusBadRequest,
		"INVALID_STATE":        http.StatusUnprocessableEntity,
		"VALIDATION":           http.StatusBadRequest,
		"SOMETHING_ELSE":       http.StatusInternalServerError,
	}
	for code, status := range tests {
		assert.Equal(t, status, GetHTTPStatus(NormalizeErrorCode(code)), code)
	}
}

func TestValidationErrorResponse_JSON(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "entity_name", Message: "This field is required"},
	})

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")

	errInfo := decoded["error"].(map[string]interface{})
	assert.Equal(t, ErrCodeValidation, errInfo["code"])
	assert.Equal(t, "req-1", errInfo["request_id"])
	details := errInfo["details"].([]interface{})
	require.Len(t, details, 1)
	assert.Equal(t, "entity_name", details[0].(map[string]interface{})["field"])
}

func TestSuccessResponse_JSON(t *testing.T) {
	data, err := json.Marshal(NewSuccessResponse(map[string]string{"k": "v"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"k":"v"}}`, string(data))
}
