package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"fintrack-server/src/ledger"
	"fintrack-server/src/middleware"
	"fintrack-server/src/models"
)

const testUserID int64 = 7

type fakeStore struct {
	txns       []models.Transaction
	categories []models.Category
	err        error
}

func (f *fakeStore) FetchTransactions(_ context.Context, owner int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Transaction
	for _, t := range f.txns {
		if t.UserID != owner {
			continue
		}
		if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && t.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) FetchCategories(_ context.Context, owner int64, _ *models.TransactionType) ([]models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Category
	for _, c := range f.categories {
		if c.UserID == owner {
			out = append(out, c)
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

func marchStore() *fakeStore {
	day := func(s string) civil.Date {
		d, err := civil.ParseDate(s)
		if err != nil {
			panic(err)
		}
		return d
	}
	txn := func(id int64, d string, typ models.TransactionType, amount string, cat *int64) models.Transaction {
		return models.Transaction{
			ID:          id,
			UserID:      testUserID,
			CategoryID:  cat,
			Description: "txn",
			Amount:      decimal.RequireFromString(amount),
			Type:        typ,
			Date:        day(d),
			CreatedAt:   time.Date(2024, 3, 1, 0, 0, int(id), 0, time.UTC),
		}
	}
	return &fakeStore{
		txns: []models.Transaction{
			txn(1, "2024-03-01", models.Income, "1000.00", ptr(int64(1))),
			txn(2, "2024-03-05", models.Expense, "200.00", ptr(int64(2))),
			txn(3, "2024-03-10", models.Expense, "50.00", nil),
		},
		categories: []models.Category{
			{ID: 1, UserID: testUserID, Name: "Salário", Type: models.Income, Color: "#00ff00"},
			{ID: 2, UserID: testUserID, Name: "Mercado", Type: models.Expense, Color: "#ff0000"},
		},
	}
}

func newService(store ledger.Store) *ledger.Service {
	return ledger.NewService(store, time.UTC)
}

// serve runs h for an authenticated request. routeParams are chi URL
// parameters given as name, value pairs.
func serve(h http.HandlerFunc, method, target, body string, routeParams ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	ctx := middleware.WithUser(req.Context(), &models.User{ID: testUserID, Name: "Ana", Email: "ana@example.com", Role: "user"})
	if len(routeParams) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(routeParams); i += 2 {
			rctx.URLParams.Add(routeParams[i], routeParams[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}
