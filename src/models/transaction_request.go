package models

import "github.com/shopspring/decimal"

// TransactionRequest is the body accepted by the create and update endpoints.
type TransactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Date        string          `json:"date"`
	CategoryID  *int64          `json:"category_id"`
}
