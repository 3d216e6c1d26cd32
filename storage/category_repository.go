package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-commerce-core/commerce"
)

// productCountExpr derives the number of products referencing a category at
// read time. The count is never stored.
const productCountExpr = "(SELECT COUNT(*) FROM products WHERE products.category_id = c.id) AS product_count"

// CategoryRepository is the bun-backed implementation of
// commerce.CategoryRepository.
type CategoryRepository struct {
	db *bun.DB
}

// NewCategoryRepository returns a category repository on the given database.
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db.DB}
}

// List returns every category with its derived product count, ordered by id.
func (r *CategoryRepository) List(ctx context.Context) ([]commerce.Category, error) {
	categories := make([]commerce.Category, 0)
	err := r.db.NewSelect().
		Model(&categories).
		ColumnExpr("c.*").
		ColumnExpr(productCountExpr).
		Order("c.id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Find returns the category with its derived product count, or (nil, nil)
// when no row matches.
func (r *CategoryRepository) Find(ctx context.Context, id int64) (*commerce.Category, error) {
	category := new(commerce.Category)
	err := r.db.NewSelect().
		Model(category).
		ColumnExpr("c.*").
		ColumnExpr(productCountExpr).
		Where("c.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Create inserts the category and fills in its generated id and timestamps.
func (r *CategoryRepository) Create(ctx context.Context, category *commerce.Category) error {
	now := time.Now()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now

	_, err := r.db.NewInsert().Model(category).Exec(ctx)
	return err
}

// Update persists every column of the category row.
func (r *CategoryRepository) Update(ctx context.Context, category *commerce.Category) error {
	category.UpdatedAt = time.Now()

	_, err := r.db.NewUpdate().Model(category).WherePK().Exec(ctx)
	return err
}

// Delete hard-deletes the category row. It reports whether a row was removed.
func (r *CategoryRepository) Delete(ctx context.Context, category *commerce.Category) (bool, error) {
	res, err := r.db.NewDelete().Model(category).WherePK().Exec(ctx)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
