package ledger

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"fintrack-server/src/models"
)

func march(t *testing.T) *Period {
	t.Helper()
	p, err := NewPeriod(date("2024-03-01"), date("2024-03-31"))
	require.NoError(t, err)
	return &p
}

func TestSummarizeMarchScenario(t *testing.T) {
	txns, _ := marchFixture()

	s, err := Summarize(owner, march(t), txns)
	require.NoError(t, err)
	require.Equal(t, "1000", s.TotalIncome.String())
	require.Equal(t, "250", s.TotalExpense.String())
	require.Equal(t, "750", s.Balance.String())
}

func TestSummarizeEmpty(t *testing.T) {
	s, err := Summarize(owner, march(t), nil)
	require.NoError(t, err)
	require.True(t, s.TotalIncome.IsZero())
	require.True(t, s.TotalExpense.IsZero())
	require.True(t, s.Balance.IsZero())

	out, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `{"totalIncome":0,"totalExpense":0,"balance":0}`, string(out))
}

func TestSummarizeAppliesPeriodAndOwner(t *testing.T) {
	txns, _ := marchFixture()
	outside := txn(10, "2024-04-01", models.Income, "999", nil)
	before := txn(11, "2024-02-29", models.Expense, "5", nil)
	stranger := txn(12, "2024-03-15", models.Income, "123", nil)
	stranger.UserID = owner + 1
	txns = append(txns, outside, before, stranger)

	s, err := Summarize(owner, march(t), txns)
	require.NoError(t, err)
	require.Equal(t, "1000", s.TotalIncome.String())
	require.Equal(t, "250", s.TotalExpense.String())

	all, err := Summarize(owner, nil, txns)
	require.NoError(t, err)
	require.Equal(t, "1999", all.TotalIncome.String())
	require.Equal(t, "255", all.TotalExpense.String())
	require.Equal(t, "1744", all.Balance.String())
}

func TestSummarizeDecimalExactness(t *testing.T) {
	txns := []models.Transaction{
		txn(1, "2024-03-01", models.Income, "0.10", nil),
		txn(2, "2024-03-01", models.Income, "0.20", nil),
		txn(3, "2024-03-02", models.Expense, "0.30", nil),
	}
	s, err := Summarize(owner, march(t), txns)
	require.NoError(t, err)
	require.True(t, s.TotalIncome.Equal(decimal.RequireFromString("0.3")))
	require.True(t, s.Balance.IsZero())
	require.True(t, s.Balance.Equal(s.TotalIncome.Sub(s.TotalExpense)))
}

func TestSummarizeRejectsInvalidPeriod(t *testing.T) {
	_, err := Summarize(owner, &Period{Start: date("2024-03-31"), End: date("2024-03-01")}, nil)
	require.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestGroupByCategoryMarchScenario(t *testing.T) {
	txns, categories := marchFixture()

	rows, err := GroupByCategory(owner, march(t), txns, categories)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, int64(1), *rows[0].CategoryID)
	require.Equal(t, "Salary", *rows[0].CategoryName)
	require.Equal(t, "#10b981", *rows[0].CategoryColor)
	require.Equal(t, models.Income, rows[0].Type)
	require.Equal(t, "1000", rows[0].Total.String())
	require.Equal(t, 1, rows[0].Count)

	require.Equal(t, "Food", *rows[1].CategoryName)
	require.Equal(t, models.Expense, rows[1].Type)
	require.Equal(t, "200", rows[1].Total.String())
	require.Equal(t, 1, rows[1].Count)

	require.Nil(t, rows[2].CategoryID)
	require.Nil(t, rows[2].CategoryName)
	require.Nil(t, rows[2].CategoryColor)
	require.Equal(t, models.Expense, rows[2].Type)
	require.Equal(t, "50", rows[2].Total.String())
	require.Equal(t, 1, rows[2].Count)
}

func TestGroupByCategoryTotalsMatchSummary(t *testing.T) {
	food := ptr(int64(2))
	txns, categories := marchFixture()
	txns = append(txns,
		txn(4, "2024-03-11", models.Expense, "12.34", food),
		txn(5, "2024-03-12", models.Expense, "7.66", food),
		txn(6, "2024-03-13", models.Income, "40", nil),
		txn(7, "2024-03-14", models.Expense, "3.01", nil),
	)

	rows, err := GroupByCategory(owner, march(t), txns, categories)
	require.NoError(t, err)
	s, err := Summarize(owner, march(t), txns)
	require.NoError(t, err)

	income, expense := decimal.Zero, decimal.Zero
	count := 0
	for _, r := range rows {
		count += r.Count
		if r.Type == models.Income {
			income = income.Add(r.Total)
		} else {
			expense = expense.Add(r.Total)
		}
	}
	require.True(t, income.Equal(s.TotalIncome))
	require.True(t, expense.Equal(s.TotalExpense))
	require.Equal(t, len(txns), count)

	// uncategorized income and uncategorized expense are separate groups
	var uncategorized int
	for _, r := range rows {
		if r.CategoryID == nil {
			uncategorized++
		}
	}
	require.Equal(t, 2, uncategorized)
}

func TestGroupByCategoryUnknownCategoryIsUncategorized(t *testing.T) {
	txns := []models.Transaction{
		txn(1, "2024-03-01", models.Expense, "10", ptr(int64(99))),
		txn(2, "2024-03-02", models.Expense, "5", nil),
	}
	// a category that belongs to somebody else must not lend its name
	categories := []models.Category{{ID: 99, UserID: owner + 1, Name: "Theirs", Type: models.Expense}}

	rows, err := GroupByCategory(owner, march(t), txns, categories)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].CategoryName)
	require.Equal(t, "15", rows[0].Total.String())
	require.Equal(t, 2, rows[0].Count)
}

func TestGroupByCategoryTieBreak(t *testing.T) {
	categories := []models.Category{
		{ID: 1, UserID: owner, Name: "Rent", Type: models.Expense},
		{ID: 2, UserID: owner, Name: "Books", Type: models.Expense},
		{ID: 3, UserID: owner, Name: "Books", Type: models.Income},
	}
	txns := []models.Transaction{
		txn(1, "2024-03-01", models.Expense, "30", nil),
		txn(2, "2024-03-02", models.Expense, "30", ptr(int64(1))),
		txn(3, "2024-03-03", models.Income, "30", ptr(int64(3))),
		txn(4, "2024-03-04", models.Expense, "30", ptr(int64(2))),
	}

	for i := 0; i < 5; i++ {
		rows, err := GroupByCategory(owner, march(t), txns, categories)
		require.NoError(t, err)
		require.Len(t, rows, 4)
		require.Equal(t, "Books", *rows[0].CategoryName)
		require.Equal(t, models.Expense, rows[0].Type)
		require.Equal(t, "Books", *rows[1].CategoryName)
		require.Equal(t, models.Income, rows[1].Type)
		require.Equal(t, "Rent", *rows[2].CategoryName)
		require.Nil(t, rows[3].CategoryName)
	}
}

func TestGroupByCategoryEmpty(t *testing.T) {
	rows, err := GroupByCategory(owner, march(t), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestGroupByDay(t *testing.T) {
	txns, _ := marchFixture()
	txns = append(txns,
		txn(4, "2024-03-05", models.Expense, "25.50", nil),
		txn(5, "2024-03-05", models.Income, "10", nil),
		txn(6, "2024-04-05", models.Income, "10", nil),
	)

	rows, err := GroupByDay(owner, march(t), txns)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	require.Equal(t, "2024-03-01", rows[0].Date.String())
	require.Equal(t, models.Income, rows[0].Type)
	require.Equal(t, "1000", rows[0].Total.String())

	require.Equal(t, "2024-03-05", rows[1].Date.String())
	require.Equal(t, models.Expense, rows[1].Type)
	require.Equal(t, "225.5", rows[1].Total.String())

	require.Equal(t, "2024-03-05", rows[2].Date.String())
	require.Equal(t, models.Income, rows[2].Type)

	require.Equal(t, "2024-03-10", rows[3].Date.String())
}

func TestGroupByDayNoSyntheticRows(t *testing.T) {
	txns := []models.Transaction{
		txn(1, "2024-03-01", models.Expense, "1", nil),
		txn(2, "2024-03-31", models.Expense, "1", nil),
	}
	rows, err := GroupByDay(owner, march(t), txns)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = GroupByDay(owner, march(t), nil)
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestCategoryTotalJSON(t *testing.T) {
	txns, categories := marchFixture()
	rows, err := GroupByCategory(owner, march(t), txns, categories)
	require.NoError(t, err)

	out, err := json.Marshal(rows[2])
	require.NoError(t, err)
	require.JSONEq(t, `{"category_id":null,"category_name":null,"category_color":null,"type":"expense","total":50,"count":1}`, string(out))
}
