package db

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

const transactionColumns = `
	t.id, t.user_id, t.category_id, t.description, t.amount::text, t.type, t.date,
	t.created_at, t.updated_at, c.name, c.color`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	var amount, typ string
	var date time.Time
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.CategoryID,
		&t.Description,
		&amount,
		&typ,
		&date,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.CategoryName,
		&t.CategoryColor,
	)
	if err != nil {
		return nil, err
	}
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q of transaction %d: %w", amount, t.ID, err)
	}
	t.Type = models.TransactionType(typ)
	t.Date = civil.DateOf(date)
	return &t, nil
}

func dateParam(d *civil.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.In(time.UTC)
	return &t
}

func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		WITH t AS (
			INSERT INTO transactions (user_id, category_id, description, amount, type, date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		)
		SELECT ` + transactionColumns + `
		FROM t LEFT JOIN categories c ON t.category_id = c.id
	`
	created, err := scanTransaction(pool.QueryRow(ctx, query,
		txn.UserID,
		txn.CategoryID,
		txn.Description,
		txn.Amount.InexactFloat64(),
		string(txn.Type),
		txn.Date.In(time.UTC),
	))
	if err != nil {
		return nil, translate(err)
	}
	return created, nil
}

func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int64) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.id = $1 AND t.user_id = $2
	`
	txn, err := scanTransaction(pool.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		return nil, translate(err)
	}
	return txn, nil
}

// GetTransactions returns the user's transactions matching filter, newest date
// first and most recently created first within a date.
func GetTransactions(ctx context.Context, pool *pgxpool.Pool, userID int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1
			AND ($2::date IS NULL OR t.date >= $2::date)
			AND ($3::date IS NULL OR t.date <= $3::date)
			AND ($4::text IS NULL OR t.type = $4::text)
			AND ($5::bigint IS NULL OR t.category_id = $5::bigint)
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $6 OFFSET $7
	`
	var typeParam *string
	if filter.Type != nil {
		s := string(*filter.Type)
		typeParam = &s
	}
	var limit *int
	if filter.Limit > 0 {
		limit = &filter.Limit
	}
	rows, err := pool.Query(ctx, query,
		userID,
		dateParam(filter.StartDate),
		dateParam(filter.EndDate),
		typeParam,
		filter.CategoryID,
		limit,
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *txn)
	}
	return transactions, rows.Err()
}

func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		WITH t AS (
			UPDATE transactions
			SET description = $1, amount = $2, type = $3, date = $4, category_id = $5, updated_at = CURRENT_TIMESTAMP
			WHERE id = $6 AND user_id = $7
			RETURNING *
		)
		SELECT ` + transactionColumns + `
		FROM t LEFT JOIN categories c ON t.category_id = c.id
	`
	updated, err := scanTransaction(pool.QueryRow(ctx, query,
		txn.Description,
		txn.Amount.InexactFloat64(),
		string(txn.Type),
		txn.Date.In(time.UTC),
		txn.CategoryID,
		txn.ID,
		txn.UserID,
	))
	if err != nil {
		return nil, translate(err)
	}
	return updated, nil
}

func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int64) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, transactionID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
