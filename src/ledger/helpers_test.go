package ledger

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

const owner int64 = 7

func date(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }

func txn(id int64, day string, typ models.TransactionType, amount string, categoryID *int64) models.Transaction {
	return models.Transaction{
		ID:          id,
		UserID:      owner,
		CategoryID:  categoryID,
		Description: "txn",
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
		Date:        date(day),
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, int(id), 0, time.UTC),
	}
}

// marchFixture is the reference scenario: a salary, a food expense and an
// uncategorized expense in March 2024.
func marchFixture() ([]models.Transaction, []models.Category) {
	categories := []models.Category{
		{ID: 1, UserID: owner, Name: "Salary", Type: models.Income, Color: "#10b981"},
		{ID: 2, UserID: owner, Name: "Food", Type: models.Expense, Color: "#ef4444"},
	}
	txns := []models.Transaction{
		txn(1, "2024-03-01", models.Income, "1000", ptr(int64(1))),
		txn(2, "2024-03-05", models.Expense, "200", ptr(int64(2))),
		txn(3, "2024-03-10", models.Expense, "50", nil),
	}
	return txns, categories
}

type fakeStore struct {
	txns       []models.Transaction
	categories []models.Category
	err        error

	filters []models.TransactionFilter
}

func (f *fakeStore) FetchTransactions(_ context.Context, owner int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	f.filters = append(f.filters, filter)
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
