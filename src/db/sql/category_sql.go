package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/db"
	"fintrack-server/src/models"
)

const categoryColumns = `id, user_id, name, type, color, created_at`

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	var typ string
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &typ, &c.Color, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Type = models.TransactionType(typ)
	return &c, nil
}

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, type, color)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + categoryColumns
	c, err := scanCategory(pool.QueryRow(ctx, query, category.UserID, category.Name, string(category.Type), category.Color))
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func GetCategoryByID(ctx context.Context, pool *pgxpool.Pool, userID, categoryID int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	c, err := scanCategory(pool.QueryRow(ctx, query, categoryID, userID))
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// GetCategories lists the user's categories by name, optionally restricted to
// one transaction type.
func GetCategories(ctx context.Context, pool *pgxpool.Pool, userID int64, typ *models.TransactionType) ([]models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND ($2::text IS NULL OR type = $2::text)
		ORDER BY name ASC
	`
	var typeParam *string
	if typ != nil {
		s := string(*typ)
		typeParam = &s
	}
	rows, err := pool.Query(ctx, query, userID, typeParam)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// GetCategoriesCached serves GetCategories through the category cache.
func GetCategoriesCached(ctx context.Context, pool *pgxpool.Pool, cache *db.Cache, userID int64, typ *models.TransactionType) ([]models.Category, error) {
	gen := cache.CategoriesGeneration(userID)
	if categories, ok := cache.GetCategories(userID, typ); ok {
		return categories, nil
	}
	categories, err := GetCategories(ctx, pool, userID, typ)
	if err != nil {
		return nil, err
	}
	cache.SetCategories(userID, typ, categories, gen)
	return categories, nil
}

// UpdateCategory changes name and color. An empty color keeps the current one.
func UpdateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, color = COALESCE(NULLIF($2, ''), color)
		WHERE id = $3 AND user_id = $4
		RETURNING ` + categoryColumns
	c, err := scanCategory(pool.QueryRow(ctx, query, category.Name, category.Color, category.ID, category.UserID))
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// DeleteCategory removes the category; its transactions keep existing with a
// cleared category_id.
func DeleteCategory(ctx context.Context, pool *pgxpool.Pool, userID, categoryID int64) error {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, categoryID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
