package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func reply(status int, body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(status, body) }
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouter_SetupMountsUnderVersion(t *testing.T) {
	engine := gin.New()
	invoices := NewDomainGroup("/invoices").GET("/:id", reply(http.StatusOK, "invoice"))

	NewRouter(engine, WithAPIVersion("v2")).Register(invoices).Setup()

	w := serve(engine, http.MethodGet, "/api/v2/invoices/42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "invoice", w.Body.String())
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/invoices/42").Code)
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("/payments").
		GET("", reply(http.StatusOK, "list")).
		POST("", reply(http.StatusCreated, "created")).
		PUT("/:id", reply(http.StatusOK, "updated")).
		DELETE("/:id", reply(http.StatusNoContent, ""))
	g.RegisterRoutes(engine.Group("/api/v1"))

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/v1/payments", http.StatusOK},
		{http.MethodPost, "/api/v1/payments", http.StatusCreated},
		{http.MethodPut, "/api/v1/payments/7", http.StatusOK},
		{http.MethodDelete, "/api/v1/payments/7", http.StatusNoContent},
		{http.MethodPatch, "/api/v1/payments/7", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(engine, tt.method, tt.path).Code)
		})
	}
}

func TestDomainGroup_MiddlewareIsScopedToGroup(t *testing.T) {
	engine := gin.New()
	tag := func(c *gin.Context) {
		c.Header("X-Group", "clients")
		c.Next()
	}

	clients := NewDomainGroup("/clients").Use(tag).GET("", reply(http.StatusOK, "clients"))
	users := NewDomainGroup("/users").GET("", reply(http.StatusOK, "users"))
	NewRouter(engine).Register(clients).Register(users).Setup()

	assert.Equal(t, "clients", serve(engine, http.MethodGet, "/api/v1/clients").Header().Get("X-Group"))
	assert.Empty(t, serve(engine, http.MethodGet, "/api/v1/users").Header().Get("X-Group"))
}
