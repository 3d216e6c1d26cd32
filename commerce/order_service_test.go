package commerce_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-commerce-core/commerce"
	"github.com/goliatone/go-commerce-core/pkg/testsupport"
)

func TestOrderService_CreateSnapshotsPriceAndDecrementsStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	books := testsupport.SeedCategory(t, e.db, "Books")
	product := testsupport.SeedProduct(t, e.db, books.ID, "Atlas", "100.00", 20)

	// Prime the product cache so the post-commit flush is observable.
	before, err := e.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 20, before.Quantity)

	order, err := e.orders.Create(ctx, commerce.OrderData{
		ProductID:     product.ID,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		Quantity:      2,
		Status:        "pending",
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.True(t, order.UnitPrice.Equal(testsupport.MustDecimal(t, "100.00")))
	assert.True(t, order.TotalPrice.Equal(testsupport.MustDecimal(t, "200.00")))
	assert.Equal(t, "pending", order.Status)
	assert.False(t, order.OrderDate.IsZero(), "order date defaults to creation time")
	require.NotNil(t, order.Product)

	after, err := e.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, after.Quantity, "stock decremented and product cache flushed")
}

func TestOrderService_CreateHonorsSuppliedOrderDate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	books := testsupport.SeedCategory(t, e.db, "Books")
	product := testsupport.SeedProduct(t, e.db, books.ID, "Atlas", "10.00", 5)

	when := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	order, err := e.orders.Create(ctx, commerce.OrderData{
		ProductID:     product.ID,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		Quantity:      1,
		Status:        "pending",
		OrderDate:     &when,
	})
	require.NoError(t, err)
	assert.True(t, order.OrderDate.Equal(when))
}

func TestOrderService_PriceSnapshotIsImmutable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	books := testsupport.SeedCategory(t, e.db, "Books")
	product := testsupport.SeedProduct(t, e.db, books.ID, "Atlas", "100.00", 20)

	order, err := e.orders.Create(ctx, commerce.OrderData{
		ProductID:     product.ID,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		Quantity:      2,
		Status:        "pending",
	})
	require.NoError(t, err)

	newPrice := testsupport.MustDecimal(t, "150.00")
	_, err = e.products.Update(ctx, product.ID, commerce.ProductUpdate{Price: &newPrice})
	require.NoError(t, err)

	reread, err := e.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, reread.UnitPrice.Equal(testsupport.MustDecimal(t, "100.00")),
		"unit price is a snapshot, not a live reference")
	assert.True(t, reread.TotalPrice.Equal(testsupport.MustDecimal(t, "200.00")))
}

func TestOrderService_CreateMissingProduct(t *testing.T) {
	e := newEnv(t)

	_, err := e.orders.Create(context.Background(), commerce.OrderData{
		ProductID:     424242,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		Quantity:      1,
		Status:        "pending",
	})
	require.ErrorIs(t, err, commerce.ErrProductNotFound)
	assert.True(t, commerce.IsBusinessError(err))
}

func TestOrderService_CreateInsufficientStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	books := testsupport.SeedCategory(t, e.db, "Books")
	product := testsupport.SeedProduct(t, e.db, books.ID, "Atlas", "10.00", 2)

	_, err := e.orders.Create(ctx, commerce.OrderData{
		ProductID:     product.ID,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		Quantity:      3,
		Status:        "pending",
	})
	require.ErrorIs(t, err, commerce.ErrInsufficientStock)

	// The whole unit rolled back: no order row, stock untouched.
	list, err := e.orderRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	after, err := e.productRepo.Find(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Quantity)
}

func TestOrderService_CreateRollsBackWhenDecrementFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	books := testsupport.SeedCategory(t, e.db, "Books")
	product := testsupport.SeedProduct(t, e.db, books.ID, "Atlas", "10.00", 5)

	boom := errors.New("connection reset")
	svc := commerce.NewOrderService(
		e.orderRepo,
		&failingDecrementRepo{ProductRepository: e.productRepo, err: boom},
		e.db, e.store, discardLogger(),
	)

	_, err := svc.Create(ctx, commerce.OrderData{
		ProductID:     product.ID,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		Quantity:      1,
		Status:        "pending",
	})
	require.ErrorIs(t, err, boom)

	list, err := e.orderRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "no order record may be visible after a failed decrement")
}

func TestOrderService_ListAllInvalidatedByCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	books := testsupport.SeedCategory(t, e.db, "Books")
	product := testsupport.SeedProduct(t, e.db, books.ID, "Atlas", "10.00", 20)

	empty, err := e.orders.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = e.orders.Create(ctx, commerce.OrderData{
		ProductID:     product.ID,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		Quantity:      1,
		Status:        "pending",
	})
	require.NoError(t, err)

	list, err := e.orders.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Product, "listing joins each order with its product")
}

func TestOrderService_UpdateRestrictsMutableFields(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	books := testsupport.SeedCategory(t, e.db, "Books")
	product := testsupport.SeedProduct(t, e.db, books.ID, "Atlas", "100.00", 20)
	other := testsupport.SeedProduct(t, e.db, books.ID, "Globe", "50.00", 20)

	order, err := e.orders.Create(ctx, commerce.OrderData{
		ProductID:     product.ID,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		Quantity:      2,
		Status:        "pending",
	})
	require.NoError(t, err)

	ignoredPrice := testsupport.MustDecimal(t, "1.00")
	updated, err := e.orders.Update(ctx, order.ID, commerce.OrderUpdate{
		CustomerName:  strptr("Jane Doe"),
		CustomerEmail: strptr("jane@example.com"),
		Status:        strptr("completed"),

		// Immutable; must be silently ignored.
		ProductID:  &other.ID,
		Quantity:   intptr(99),
		UnitPrice:  &ignoredPrice,
		TotalPrice: &ignoredPrice,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "Jane Doe", updated.CustomerName)
	assert.Equal(t, "jane@example.com", updated.CustomerEmail)
	assert.Equal(t, "completed", updated.Status)

	assert.Equal(t, product.ID, updated.ProductID)
	assert.Equal(t, 2, updated.Quantity)
	assert.True(t, updated.UnitPrice.Equal(testsupport.MustDecimal(t, "100.00")))
	assert.True(t, updated.TotalPrice.Equal(testsupport.MustDecimal(t, "200.00")))
}

func TestOrderService_UpdateMissingReturnsAbsent(t *testing.T) {
	e := newEnv(t)

	updated, err := e.orders.Update(context.Background(), 404, commerce.OrderUpdate{Status: strptr("x")})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestOrderService_DeleteDoesNotRestock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	books := testsupport.SeedCategory(t, e.db, "Books")
	product := testsupport.SeedProduct(t, e.db, books.ID, "Atlas", "100.00", 20)

	order, err := e.orders.Create(ctx, commerce.OrderData{
		ProductID:     product.ID,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		Quantity:      2,
		Status:        "pending",
	})
	require.NoError(t, err)

	deleted, err := e.orders.Delete(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	gone, err := e.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	after, err := e.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, after.Quantity, "deleting an order performs no compensating restock")

	deleted, err = e.orders.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestOrderService_LifecycleScenario(t *testing.T) {
	// price=100.00, stock=20; order qty=2 => unit 100.00, total 200.00,
	// stock 18; complete the order => snapshot unchanged; delete => stock
	// still 18.
	e := newEnv(t)
	ctx := context.Background()

	books := testsupport.SeedCategory(t, e.db, "Books")
	product := testsupport.SeedProduct(t, e.db, books.ID, "Atlas", "100.00", 20)

	order, err := e.orders.Create(ctx, commerce.OrderData{
		ProductID:     product.ID,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		Quantity:      2,
		Status:        "pending",
	})
	require.NoError(t, err)
	assert.True(t, order.UnitPrice.Equal(testsupport.MustDecimal(t, "100.00")))
	assert.True(t, order.TotalPrice.Equal(testsupport.MustDecimal(t, "200.00")))

	mid, err := e.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 18, mid.Quantity)

	order, err = e.orders.Update(ctx, order.ID, commerce.OrderUpdate{Status: strptr("completed")})
	require.NoError(t, err)
	assert.True(t, order.UnitPrice.Equal(testsupport.MustDecimal(t, "100.00")))
	assert.True(t, order.TotalPrice.Equal(testsupport.MustDecimal(t, "200.00")))

	deleted, err := e.orders.Delete(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	final, err := e.products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, final.Quantity)
}

func TestOrderService_ValidationErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		data commerce.OrderData
	}{
		{name: "missing product", data: commerce.OrderData{CustomerName: "J", CustomerEmail: "j@example.com", Quantity: 1}},
		{name: "missing customer name", data: commerce.OrderData{ProductID: 1, CustomerEmail: "j@example.com", Quantity: 1}},
		{name: "bad email", data: commerce.OrderData{ProductID: 1, CustomerName: "J", CustomerEmail: "nope", Quantity: 1}},
		{name: "zero quantity", data: commerce.OrderData{ProductID: 1, CustomerName: "J", CustomerEmail: "j@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.orders.Create(ctx, tt.data)
			require.Error(t, err)
			assert.True(t, commerce.IsBusinessError(err))
		})
	}
}
