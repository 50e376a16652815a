package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/db"
	"fintrack-server/src/models"
)

// LedgerStore serves the report engine from Postgres.
type LedgerStore struct {
	pool  *pgxpool.Pool
	cache *db.Cache
}

func NewLedgerStore(pool *pgxpool.Pool, cache *db.Cache) *LedgerStore {
	return &LedgerStore{pool: pool, cache: cache}
}

func (s *LedgerStore) FetchTransactions(ctx context.Context, owner int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	return GetTransactions(ctx, s.pool, owner, filter)
}

func (s *LedgerStore) FetchCategories(ctx context.Context, owner int64, typ *models.TransactionType) ([]models.Category, error) {
	return GetCategoriesCached(ctx, s.pool, s.cache, owner, typ)
}
