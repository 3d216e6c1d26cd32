package commerce

import (
	"context"

	"github.com/uptrace/bun"
)

// The services consume repositories through these interfaces; the storage
// package provides the bun-backed implementations. Absent rows are reported
// as (nil, nil), never as an error.

// Transactor runs fn inside a single transaction, rolling back on any
// returned error. The tx handle is passed to the repositories' Tx variants.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.IDB) error) error
}

// CategoryRepository is the persistence contract for categories.
// Reads surface the derived product count.
type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	Find(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, category *Category) (bool, error)
}

// ProductRepository is the persistence contract for products.
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	Find(ctx context.Context, id int64) (*Product, error)
	FindWithCategory(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, product *Product) (bool, error)

	// FindTx reads a product through the given transaction handle.
	FindTx(ctx context.Context, tx bun.IDB, id int64) (*Product, error)

	// DecrementStockTx atomically decrements the product's stock by quantity,
	// guarded so the counter can never go below zero. It reports false when
	// the stock was insufficient and no row was changed.
	DecrementStockTx(ctx context.Context, tx bun.IDB, id int64, quantity int) (bool, error)
}

// OrderRepository is the persistence contract for orders.
type OrderRepository interface {
	List(ctx context.Context) ([]Order, error)
	Find(ctx context.Context, id int64) (*Order, error)
	FindWithProduct(ctx context.Context, id int64) (*Order, error)
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, order *Order) (bool, error)

	// CreateTx inserts the order through the given transaction handle.
	CreateTx(ctx context.Context, tx bun.IDB, order *Order) error

	// FindWithProductTx reads an order and its product through the given
	// transaction handle.
	FindWithProductTx(ctx context.Context, tx bun.IDB, id int64) (*Order, error)

	// UpdateTx persists order changes through the given transaction handle.
	UpdateTx(ctx context.Context, tx bun.IDB, order *Order) error

	// DeleteTx removes the order through the given transaction handle.
	DeleteTx(ctx context.Context, tx bun.IDB, order *Order) (bool, error)
}
