package ledger

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

type Summary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}

// CategoryTotal is one (category, type) group. A nil CategoryID marks the
// uncategorized group, whose name and color are nil as well.
type CategoryTotal struct {
	CategoryID    *int64                 `json:"category_id"`
	CategoryName  *string                `json:"category_name"`
	CategoryColor *string                `json:"category_color"`
	Type          models.TransactionType `json:"type"`
	Total         decimal.Decimal        `json:"total"`
	Count         int                    `json:"count"`
}

type DayTotal struct {
	Date  civil.Date             `json:"date"`
	Type  models.TransactionType `json:"type"`
	Total decimal.Decimal        `json:"total"`
}

// scope returns the transactions owned by owner that fall inside period. A nil
// period keeps every date.
func scope(owner int64, period *Period, txns []models.Transaction) ([]models.Transaction, error) {
	if period != nil {
		if err := period.Validate(); err != nil {
			return nil, err
		}
	}
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.UserID != owner {
			continue
		}
		if period != nil && !period.Contains(t.Date) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Summarize totals income and expense for owner over period.
func Summarize(owner int64, period *Period, txns []models.Transaction) (Summary, error) {
	scoped, err := scope(owner, period, txns)
	if err != nil {
		return Summary{}, err
	}
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range scoped {
		switch t.Type {
		case models.Income:
			income = income.Add(t.Amount)
		case models.Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}, nil
}

type categoryKey struct {
	categoryID int64
	known      bool
	typ        models.TransactionType
}

// GroupByCategory reduces the scoped transactions to one row per (category, type),
// ordered by total descending, then by category name with uncategorized last,
// then by type. Transactions whose category is not in categories are grouped
// as uncategorized.
func GroupByCategory(owner int64, period *Period, txns []models.Transaction, categories []models.Category) ([]CategoryTotal, error) {
	scoped, err := scope(owner, period, txns)
	if err != nil {
		return nil, err
	}
	index := newCategoryIndex(owner, categories)

	groups := make(map[categoryKey]*CategoryTotal)
	order := make([]categoryKey, 0)
	for _, t := range scoped {
		key := categoryKey{typ: t.Type}
		cat := index.resolve(t)
		if cat != nil {
			key.categoryID = cat.ID
			key.known = true
		}
		g, ok := groups[key]
		if !ok {
			g = &CategoryTotal{Type: t.Type, Total: decimal.Zero}
			if cat != nil {
				id, name, color := cat.ID, cat.Name, cat.Color
				g.CategoryID, g.CategoryName, g.CategoryColor = &id, &name, &color
			}
			groups[key] = g
			order = append(order, key)
		}
		g.Total = g.Total.Add(t.Amount)
		g.Count++
	}

	rows := make([]CategoryTotal, 0, len(order))
	for _, k := range order {
		rows = append(rows, *groups[k])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}
		if (a.CategoryName == nil) != (b.CategoryName == nil) {
			return b.CategoryName == nil
		}
		if a.CategoryName != nil && *a.CategoryName != *b.CategoryName {
			return *a.CategoryName < *b.CategoryName
		}
		return a.Type < b.Type
	})
	return rows, nil
}

type dayKey struct {
	date civil.Date
	typ  models.TransactionType
}

// GroupByDay sums the scoped transactions per (date, type), oldest first. Days
// without activity produce no row.
func GroupByDay(owner int64, period *Period, txns []models.Transaction) ([]DayTotal, error) {
	scoped, err := scope(owner, period, txns)
	if err != nil {
		return nil, err
	}
	sums := make(map[dayKey]decimal.Decimal)
	for _, t := range scoped {
		k := dayKey{date: t.Date, typ: t.Type}
		if cur, ok := sums[k]; ok {
			sums[k] = cur.Add(t.Amount)
		} else {
			sums[k] = t.Amount
		}
	}
	rows := make([]DayTotal, 0, len(sums))
	for k, total := range sums {
		rows = append(rows, DayTotal{Date: k.date, Type: k.typ, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].Type < rows[j].Type
	})
	return rows, nil
}

type categoryIndex map[int64]*models.Category

func newCategoryIndex(owner int64, categories []models.Category) categoryIndex {
	idx := make(categoryIndex, len(categories))
	for i := range categories {
		if categories[i].UserID == owner {
			idx[categories[i].ID] = &categories[i]
		}
	}
	return idx
}

// resolve returns the category a transaction points at, or nil when it has none
// or the reference no longer exists.
func (idx categoryIndex) resolve(t models.Transaction) *models.Category {
	if t.CategoryID == nil {
		return nil
	}
	return idx[*t.CategoryID]
}
