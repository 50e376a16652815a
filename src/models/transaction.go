package models

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts cross the API as JSON numbers, never as quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

type Transaction struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	CategoryID    *int64          `json:"category_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Date          civil.Date      `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CategoryName  *string         `json:"category_name"`
	CategoryColor *string         `json:"category_color"`
}

// TransactionFilter narrows a transaction query. Nil fields are not applied and a
// zero Limit means no limit.
type TransactionFilter struct {
	StartDate  *civil.Date
	EndDate    *civil.Date
	Type       *TransactionType
	CategoryID *int64
	Limit      int
	Offset     int
}
