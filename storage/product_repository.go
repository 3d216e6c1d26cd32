package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-commerce-core/commerce"
)

// ProductRepository is the bun-backed implementation of
// commerce.ProductRepository.
type ProductRepository struct {
	db *bun.DB
}

// NewProductRepository returns a product repository on the given database.
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db.DB}
}

// List returns every product joined with its category, ordered by id.
func (r *ProductRepository) List(ctx context.Context) ([]commerce.Product, error) {
	products := make([]commerce.Product, 0)
	err := r.db.NewSelect().
		Model(&products).
		Relation("Category").
		Order("p.id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Find returns the product row, or (nil, nil) when no row matches.
func (r *ProductRepository) Find(ctx context.Context, id int64) (*commerce.Product, error) {
	return r.find(ctx, r.db, id, false)
}

// FindWithCategory returns the product joined with its category, or
// (nil, nil) when no row matches.
func (r *ProductRepository) FindWithCategory(ctx context.Context, id int64) (*commerce.Product, error) {
	return r.find(ctx, r.db, id, true)
}

// FindTx reads the product through the given transaction handle.
func (r *ProductRepository) FindTx(ctx context.Context, tx bun.IDB, id int64) (*commerce.Product, error) {
	return r.find(ctx, tx, id, false)
}

// Create inserts the product and fills in its generated id and timestamps.
func (r *ProductRepository) Create(ctx context.Context, product *commerce.Product) error {
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := r.db.NewInsert().Model(product).Exec(ctx)
	return err
}

// Update persists every column of the product row.
func (r *ProductRepository) Update(ctx context.Context, product *commerce.Product) error {
	product.UpdatedAt = time.Now()

	_, err := r.db.NewUpdate().Model(product).WherePK().Exec(ctx)
	return err
}

// Delete hard-deletes the product row. It reports whether a row was removed.
func (r *ProductRepository) Delete(ctx context.Context, product *commerce.Product) (bool, error) {
	res, err := r.db.NewDelete().Model(product).WherePK().Exec(ctx)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// DecrementStockTx decrements the stock counter with a guard in the WHERE
// clause, so the read-decrement-write race between concurrent orders is
// resolved by the database. Zero affected rows means the remaining stock was
// smaller than quantity; the caller is expected to roll back.
func (r *ProductRepository) DecrementStockTx(ctx context.Context, tx bun.IDB, id int64, quantity int) (bool, error) {
	res, err := tx.NewUpdate().
		Model((*commerce.Product)(nil)).
		Set("quantity = quantity - ?", quantity).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("quantity >= ?", quantity).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *ProductRepository) find(ctx context.Context, db bun.IDB, id int64, withCategory bool) (*commerce.Product, error) {
	product := new(commerce.Product)
	q := db.NewSelect().Model(product).Where("p.id = ?", id)
	if withCategory {
		q = q.Relation("Category")
	}
	err := q.Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}
