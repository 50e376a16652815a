package models

import "time"

const DefaultCategoryColor = "#6366f1"

type Category struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Color     string          `json:"color"`
	CreatedAt time.Time       `json:"created_at"`
}
