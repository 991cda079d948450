package handler_test

import (
	"net/http"
	"testing"

	"github.com/gestion/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestUserHandler_CRUD(t *testing.T) {
	s := newTestServer(t)

	author := s.create("/api/v1/users", map[string]interface{}{
		"email":            "Jean.Dupont@Example.fr",
		"first_name":       "Jean",
		"last_name":        "Dupont",
		"password":         "secret1",
		"confirm_password": "secret1",
		"is_author":        true,
	})
	assert.Equal(t, true, author["is_active"])
	assert.Nil(t, author["password"])
	assert.NotContains(t, author, "password_hash")

	s.create("/api/v1/users", map[string]interface{}{
		"email":            "marie@example.fr",
		"password":         "secret2",
		"confirm_password": "secret2",
	})

	w := s.do(http.MethodGet, "/api/v1/users", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Len(t, testutil.ListOf(t, w), 2)

	w = s.do(http.MethodGet, "/api/v1/users?author=true", nil)
	authors := testutil.ListOf(t, w)
	assert.Len(t, authors, 1)

	id := author["id"].(string)
	w = s.do(http.MethodPut, "/api/v1/users/"+id, map[string]interface{}{
		"email":     "Jean.Dupont@Example.fr",
		"last_name": "Durand",
		"is_active": true,
	})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	data := testutil.DataOf(t, w)
	assert.Equal(t, "Durand", data["last_name"])
	assert.Equal(t, false, data["is_author"])

	w = s.do(http.MethodDelete, "/api/v1/users/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users/"+id, nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "ERR_NOT_FOUND")
}

func TestUserHandler_Errors(t *testing.T) {
	s := newTestServer(t)
	s.create("/api/v1/users", map[string]interface{}{
		"email": "jean@example.fr", "password": "secret1", "confirm_password": "secret1",
	})

	w := s.do(http.MethodPost, "/api/v1/users", map[string]interface{}{
		"email": "jean@example.fr", "password": "secret1", "confirm_password": "secret1",
	})
	testutil.AssertErrorResponse(t, w, http.StatusConflict, "ERR_ALREADY_EXISTS")

	w = s.do(http.MethodPost, "/api/v1/users", map[string]interface{}{
		"email": "paul@example.fr", "password": "secret1", "confirm_password": "secret2",
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "ERR_INVALID_PASSWORD")

	w = s.do(http.MethodPost, "/api/v1/users", map[string]interface{}{
		"email": "paul@example.fr", "password": "abc", "confirm_password": "abc",
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "ERR_VALIDATION")
}
