package testsupport

import (
	"context"
	"testing"
)

func TestNewTestDB_IsolatedPerCall(t *testing.T) {
	first := NewTestDB(t)
	second := NewTestDB(t)

	SeedCategory(t, first, "Books")

	ctx := context.Background()
	var count int
	if err := second.DB.NewSelect().Table("categories").ColumnExpr("COUNT(*)").Scan(ctx, &count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected isolated database, found %d categories", count)
	}
}

func TestSeedProduct(t *testing.T) {
	db := NewTestDB(t)

	category := SeedCategory(t, db, "Books")
	product := SeedProduct(t, db, category.ID, "Atlas", "19.99", 7)

	if product.ID == 0 {
		t.Fatal("seeded product should have an assigned ID")
	}
	if product.CategoryID != category.ID {
		t.Errorf("expected category %d, got %d", category.ID, product.CategoryID)
	}
	if !product.Price.Equal(MustDecimal(t, "19.99")) {
		t.Errorf("expected price 19.99, got %s", product.Price)
	}
	if product.Quantity != 7 {
		t.Errorf("expected quantity 7, got %d", product.Quantity)
	}
}

func TestSeedOrder_SnapshotsProductPrice(t *testing.T) {
	db := NewTestDB(t)

	category := SeedCategory(t, db, "Books")
	product := SeedProduct(t, db, category.ID, "Atlas", "10.00", 5)
	order := SeedOrder(t, db, product, 3)

	if !order.UnitPrice.Equal(product.Price) {
		t.Errorf("expected unit price %s, got %s", product.Price, order.UnitPrice)
	}
	if !order.TotalPrice.Equal(MustDecimal(t, "30.00")) {
		t.Errorf("expected total 30.00, got %s", order.TotalPrice)
	}
}

func TestMustDecimal(t *testing.T) {
	d := MustDecimal(t, "42.50")
	if d.String() != "42.5" {
		t.Errorf("unexpected decimal value: %s", d)
	}
}
