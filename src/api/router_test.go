package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"fintrack-server/src/config"
	"fintrack-server/src/db"
	sqlstore "fintrack-server/src/db/sql"
	"fintrack-server/src/handlers"
	"fintrack-server/src/ledger"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
)

type emptyStore struct{}

func (emptyStore) FetchTransactions(context.Context, int64, models.TransactionFilter) ([]models.Transaction, error) {
	return nil, nil
}

func (emptyStore) FetchCategories(context.Context, int64, *models.TransactionType) ([]models.Category, error) {
	return nil, nil
}

var users = map[int64]*models.User{
	1: {ID: 1, Name: "Ana", Email: "ana@example.com", Role: "user"},
	2: {ID: 2, Name: "Root", Email: "root@example.com", Role: "admin"},
}

func testRouter(t *testing.T, readOnly bool) (http.Handler, handlers.AuthConfig) {
	t.Helper()
	cache, err := db.NewCache(100)
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	cfg := config.Config{JWTSecret: "router-secret", JWTTTL: time.Hour, CORSOrigins: []string{"*"}, ReadOnly: readOnly}
	auth := handlers.AuthConfig{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL}
	lookup := func(_ context.Context, id int64) (*models.User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		return nil, sqlstore.ErrNotFound
	}
	svc := ledger.NewService(emptyStore{}, time.UTC)
	return newRouter(nil, cache, svc, cfg, auth, lookup, zerolog.Nop()), auth
}

func do(t *testing.T, h http.Handler, method, path string, userID int64, auth handlers.AuthConfig) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	if userID != 0 {
		token, err := util.IssueToken(auth.Secret, userID, auth.TTL, time.Now())
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, auth := testRouter(t, false)
	rec := do(t, h, http.MethodGet, "/api/health", 0, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h, auth := testRouter(t, false)
	for _, path := range []string{
		"/api/auth/me",
		"/api/transactions",
		"/api/transactions/summary",
		"/api/categories",
		"/api/reports/monthly",
		"/api/reports/export/csv",
	} {
		rec := do(t, h, http.MethodGet, path, 0, auth)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestReportRoutes(t *testing.T) {
	h, auth := testRouter(t, false)

	rec := do(t, h, http.MethodGet, "/api/transactions/summary", 1, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"totalIncome":0,"totalExpense":0,"balance":0}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/reports/monthly?year=2024&month=2", 1, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t,
		`{"period":{"start":"2024-02-01","end":"2024-02-29","month":"Fevereiro 2024"},"byCategory":[],"byDay":[]}`,
		rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/reports/export/csv", 1, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "\ufeffData,Descrição,Tipo,Valor,Categoria\n", rec.Body.String())
}

func TestMeRoute(t *testing.T) {
	h, auth := testRouter(t, false)
	rec := do(t, h, http.MethodGet, "/api/auth/me", 1, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"name":"Ana"`)
}

func TestAdminRoutes(t *testing.T) {
	h, auth := testRouter(t, false)

	rec := do(t, h, http.MethodPost, "/api/admin/cache/clear", 1, auth)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/admin/cache/clear", 2, auth)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReadOnlyRouter(t *testing.T) {
	h, auth := testRouter(t, true)

	rec := do(t, h, http.MethodPost, "/api/transactions", 1, auth)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/transactions/summary", 1, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	// login still reaches its handler, which rejects the empty body
	rec = do(t, h, http.MethodPost, "/api/auth/login", 0, auth)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	h, auth := testRouter(t, false)
	rec := do(t, h, http.MethodGet, "/api/nope", 0, auth)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"route not found"}`, rec.Body.String())
}
