package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-commerce-core/commerce"
)

// OrderRepository is the bun-backed implementation of
// commerce.OrderRepository.
type OrderRepository struct {
	db *bun.DB
}

// NewOrderRepository returns an order repository on the given database.
func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db.DB}
}

// List returns every order joined with its product, ordered by id.
func (r *OrderRepository) List(ctx context.Context) ([]commerce.Order, error) {
	orders := make([]commerce.Order, 0)
	err := r.db.NewSelect().
		Model(&orders).
		Relation("Product").
		Order("o.id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Find returns the order row, or (nil, nil) when no row matches.
func (r *OrderRepository) Find(ctx context.Context, id int64) (*commerce.Order, error) {
	return r.find(ctx, r.db, id, false)
}

// FindWithProduct returns the order joined with its product, or (nil, nil)
// when no row matches.
func (r *OrderRepository) FindWithProduct(ctx context.Context, id int64) (*commerce.Order, error) {
	return r.find(ctx, r.db, id, true)
}

// FindWithProductTx reads the order and its product through the given
// transaction handle.
func (r *OrderRepository) FindWithProductTx(ctx context.Context, tx bun.IDB, id int64) (*commerce.Order, error) {
	return r.find(ctx, tx, id, true)
}

// CreateTx inserts the order through the given transaction handle and fills
// in its generated id and timestamps.
func (r *OrderRepository) CreateTx(ctx context.Context, tx bun.IDB, order *commerce.Order) error {
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	_, err := tx.NewInsert().Model(order).Exec(ctx)
	return err
}

// Update persists every column of the order row.
func (r *OrderRepository) Update(ctx context.Context, order *commerce.Order) error {
	return r.update(ctx, r.db, order)
}

// UpdateTx persists the order through the given transaction handle.
func (r *OrderRepository) UpdateTx(ctx context.Context, tx bun.IDB, order *commerce.Order) error {
	return r.update(ctx, tx, order)
}

// Delete hard-deletes the order row. It reports whether a row was removed.
func (r *OrderRepository) Delete(ctx context.Context, order *commerce.Order) (bool, error) {
	return r.delete(ctx, r.db, order)
}

// DeleteTx removes the order through the given transaction handle.
func (r *OrderRepository) DeleteTx(ctx context.Context, tx bun.IDB, order *commerce.Order) (bool, error) {
	return r.delete(ctx, tx, order)
}

func (r *OrderRepository) find(ctx context.Context, db bun.IDB, id int64, withProduct bool) (*commerce.Order, error) {
	order := new(commerce.Order)
	q := db.NewSelect().Model(order).Where("o.id = ?", id)
	if withProduct {
		q = q.Relation("Product")
	}
	err := q.Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) update(ctx context.Context, db bun.IDB, order *commerce.Order) error {
	order.UpdatedAt = time.Now()

	_, err := db.NewUpdate().Model(order).WherePK().Exec(ctx)
	return err
}

func (r *OrderRepository) delete(ctx context.Context, db bun.IDB, order *commerce.Order) (bool, error) {
	res, err := db.NewDelete().Model(order).WherePK().Exec(ctx)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
