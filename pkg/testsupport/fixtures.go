package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-commerce-core/commerce"
	"github.com/goliatone/go-commerce-core/storage"
)

// NewTestDB opens a fresh in-memory SQLite database with the entity schema
// created. Each call gets its own uniquely named shared-cache database, so
// parallel tests never see each other's rows. The handle is closed when the
// test finishes.
func NewTestDB(t *testing.T) *storage.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := storage.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	// Shared-cache memory databases vanish when the last connection closes;
	// keep one open for the test's lifetime.
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.CreateSchema(context.Background()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}

// SeedCategory inserts a category and returns it.
func SeedCategory(t *testing.T, db *storage.DB, name string) *commerce.Category {
	t.Helper()

	category := &commerce.Category{
		Name:     name,
		IsActive: true,
	}
	if err := storage.NewCategoryRepository(db).Create(context.Background(), category); err != nil {
		t.Fatalf("failed to seed category %q: %v", name, err)
	}
	return category
}

// SeedProduct inserts a product under the given category and returns it.
func SeedProduct(t *testing.T, db *storage.DB, categoryID int64, name, price string, quantity int) *commerce.Product {
	t.Helper()

	product := &commerce.Product{
		Name:       name,
		SKU:        fmt.Sprintf("SKU-%s", uuid.NewString()[:8]),
		Price:      MustDecimal(t, price),
		Quantity:   quantity,
		CategoryID: categoryID,
		IsActive:   true,
	}
	if err := storage.NewProductRepository(db).Create(context.Background(), product); err != nil {
		t.Fatalf("failed to seed product %q: %v", name, err)
	}
	return product
}

// SeedOrder inserts an order for the given product and returns it.
func SeedOrder(t *testing.T, db *storage.DB, product *commerce.Product, quantity int) *commerce.Order {
	t.Helper()

	order := &commerce.Order{
		ProductID:     product.ID,
		CustomerName:  "Jo Fixture",
		CustomerEmail: "jo@example.com",
		Quantity:      quantity,
		UnitPrice:     product.Price,
		TotalPrice:    product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Status:        "pending",
		OrderDate:     time.Now(),
	}

	if err := storage.NewOrderRepository(db).CreateTx(context.Background(), db.DB, order); err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return order
}

// MustDecimal parses a decimal literal, failing the test on bad input.
func MustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal literal %q: %v", s, err)
	}
	return d
}
