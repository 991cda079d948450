package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gestion/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactInput struct {
	Nom   string `json:"nom" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

type batchInput struct {
	Contacts []contactInput `json:"contacts" binding:"dive"`
}

type ContactFields struct {
	Nom   string `json:"nom" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

type contactLine struct {
	ID *string `json:"id"`
	ContactFields
}

type embeddedBatchInput struct {
	Contacts []contactLine `json:"contacts" binding:"dive"`
}

type clientInput struct {
	Nom  string `json:"nom" binding:"required,max=10"`
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

func bindRouter[T any]() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req T
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func postJSON(t *testing.T, router *gin.Engine, body string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	router := bindRouter[clientInput]()

	w, resp := postJSON(t, router, `{"nom": "", "date": "15/01/2024"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "nom", resp.Error.Details[0].Field)
	assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
	assert.Equal(t, "date", resp.Error.Details[1].Field)
	assert.Equal(t, "Invalid date, expected YYYY-MM-DD", resp.Error.Details[1].Message)
}

func TestHandleValidationError_NestedPath(t *testing.T) {
	router := bindRouter[batchInput]()

	w, resp := postJSON(t, router, `{"contacts": [{"nom": "Dupont"}, {"nom": "Martin", "email": "nope"}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "contacts[1].email", resp.Error.Details[0].Field)
	assert.Equal(t, "Invalid email format", resp.Error.Details[0].Message)
}

func TestHandleValidationError_EmbeddedStructPath(t *testing.T) {
	router := bindRouter[embeddedBatchInput]()

	w, resp := postJSON(t, router, `{"contacts": [{"id": "x", "nom": "Martin", "email": "nope"}, {"nom": ""}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "contacts[0].email", resp.Error.Details[0].Field)
	assert.Equal(t, "contacts[1].nom", resp.Error.Details[1].Field)
}

func TestHandleValidationError_WrongType(t *testing.T) {
	router := bindRouter[clientInput]()

	w, resp := postJSON(t, router, `{"nom": 12}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "nom", resp.Error.Details[0].Field)
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	router := bindRouter[clientInput]()

	w, resp := postJSON(t, router, `{"nom": `+"\"x\""+` ,,}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
}

func TestHandleValidationError_Valid(t *testing.T) {
	router := bindRouter[clientInput]()

	w, resp := postJSON(t, router, `{"nom": "ACME", "date": "2024-01-15"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Required string `validate:"required"`
		Email    string `validate:"omitempty,email"`
		Min      string `validate:"min=5"`
		Max      string `validate:"max=3"`
		OneOf    string `validate:"omitempty,oneof=a b c"`
	}

	v := validator.New()
	err := v.Struct(sample{Email: "invalid", Min: "ab", Max: "abcdef", OneOf: "d"})
	require.Error(t, err)

	got := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		got[e.Field()] = getValidationMessage(e)
	}

	assert.Equal(t, "This field is required", got["Required"])
	assert.Equal(t, "Invalid email format", got["Email"])
	assert.Equal(t, "Must be at least 5 characters", got["Min"])
	assert.Equal(t, "Must be at most 3 characters", got["Max"])
	assert.Equal(t, "Must be one of: a b c", got["OneOf"])
}
