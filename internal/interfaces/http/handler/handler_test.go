package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	affaireapp "github.com/gestion/backend/internal/application/affaire"
	financeapp "github.com/gestion/backend/internal/application/finance"
	identityapp "github.com/gestion/backend/internal/application/identity"
	partnerapp "github.com/gestion/backend/internal/application/partner"
	reportapp "github.com/gestion/backend/internal/application/report"
	appshared "github.com/gestion/backend/internal/application/shared"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/persistence"
	"github.com/gestion/backend/internal/interfaces/http/handler"
	"github.com/gestion/backend/internal/interfaces/http/middleware"
	"github.com/gestion/backend/internal/interfaces/http/router"
	"github.com/gestion/backend/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	repos  appshared.Repositories
}

// newTestServer serves the full API over an in-memory database with today
// pinned to 2024-03-20
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	middleware.SetupValidator()

	db := testutil.NewTestDB(t)
	repos := persistence.Repositories(db)
	tx := persistence.NewGormTransactionScope(db)
	return newServerWith(t, repos, tx)
}

func newServerWith(t *testing.T, repos appshared.Repositories, tx appshared.TransactionScope) *testServer {
	clock := testutil.ClockAt(2024, time.March, 20)

	affaires := affaireapp.NewAffaireService(repos, tx)
	contacts := affaireapp.NewContactService(repos, tx)
	invoices := financeapp.NewInvoiceService(repos, tx, clock)
	payments := financeapp.NewPaymentService(repos, tx, clock)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.NewRouter(engine).RegisterAPI(router.Handlers{
		System:    handler.NewSystemHandler(nil, clock),
		Client:    handler.NewClientHandler(partnerapp.NewClientService(repos, tx), affaires, contacts),
		Affaire:   handler.NewAffaireHandler(affaires, contacts, invoices),
		Contact:   handler.NewContactHandler(contacts),
		Invoice:   handler.NewInvoiceHandler(invoices, payments),
		Payment:   handler.NewPaymentHandler(payments),
		User:      handler.NewUserHandler(identityapp.NewUserService(repos, tx)),
		Dashboard: handler.NewDashboardHandler(reportapp.NewDashboardService(repos, clock)),
	})
	return &testServer{t: t, engine: engine, repos: repos}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	return testutil.PerformRequest(s.t, s.engine, method, path, body)
}

// create posts body and returns the data of the 201 response
func (s *testServer) create(path string, body interface{}) map[string]interface{} {
	s.t.Helper()
	w := s.do(http.MethodPost, path, body)
	testutil.AssertSuccessResponse(s.t, w, http.StatusCreated)
	return testutil.DataOf(s.t, w)
}

func (s *testServer) client(name string) string {
	return s.create("/api/v1/clients", map[string]interface{}{"entity_name": name})["id"].(string)
}

func (s *testServer) affaire(number, clientID, budget string) string {
	body := map[string]interface{}{"affaire_number": number, "budget": budget}
	if clientID != "" {
		body["client_id"] = clientID
	}
	return s.create("/api/v1/affaires", body)["id"].(string)
}

func (s *testServer) invoice(affaireID, number, date, amountHT string) map[string]interface{} {
	return s.create("/api/v1/invoices", map[string]interface{}{
		"affaire_id":     affaireID,
		"invoice_number": number,
		"date":           date,
		"amount_ht":      amountHT,
	})
}

func dec(t *testing.T, v interface{}) decimal.Decimal {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "expected a decimal string, got %v", v)
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, expected string, v interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(dec(t, v)), "expected %s, got %v", expected, v)
}

func errorDetails(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	resp := testutil.JSONResponse(t, w)
	errMap := resp["error"].(map[string]interface{})
	details, _ := errMap["details"].([]interface{})
	return details
}

func TestSystemHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, "ok", testutil.DataOf(t, w)["status"])

	w = s.do(http.MethodGet, "/api/v1/system/ping", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	data := testutil.DataOf(t, w)
	assert.Equal(t, "pong", data["message"])
	assert.Equal(t, "2024-03-20T12:00:00Z", data["timestamp"])
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return context.DeadlineExceeded }

func TestSystemHandler_HealthDatabaseDown(t *testing.T) {
	h := handler.NewSystemHandler(failingPinger{}, shared.SystemClock{})
	engine := gin.New()
	engine.GET("/health", h.Health)

	w := testutil.PerformRequest(t, engine, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := testutil.JSONResponse(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "down", resp["data"].(map[string]interface{})["database"])
}
