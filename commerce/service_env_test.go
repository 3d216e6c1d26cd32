package commerce_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-commerce-core/cache"
	"github.com/goliatone/go-commerce-core/commerce"
	"github.com/goliatone/go-commerce-core/pkg/testsupport"
	"github.com/goliatone/go-commerce-core/storage"
)

// env wires the three services against a fresh database and a real tagged
// cache, the way pkg/di does in production.
type env struct {
	db         *storage.DB
	store      cache.TaggedCache
	categories *commerce.CategoryService
	products   *commerce.ProductService
	orders     *commerce.OrderService

	categoryRepo *storage.CategoryRepository
	productRepo  *storage.ProductRepository
	orderRepo    *storage.OrderRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testsupport.NewTestDB(t)
	store, err := cache.NewTaggedCache(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create tagged cache: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	categoryRepo := storage.NewCategoryRepository(db)
	productRepo := storage.NewProductRepository(db)
	orderRepo := storage.NewOrderRepository(db)

	return &env{
		db:           db,
		store:        store,
		categories:   commerce.NewCategoryService(categoryRepo, store, log),
		products:     commerce.NewProductService(productRepo, store, log),
		orders:       commerce.NewOrderService(orderRepo, productRepo, db, store, log),
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
	}
}

// failingDecrementRepo simulates a persistence fault at the stock-decrement
// step so atomicity can be observed.
type failingDecrementRepo struct {
	commerce.ProductRepository
	err error
}

func (r *failingDecrementRepo) DecrementStockTx(ctx context.Context, tx bun.IDB, id int64, quantity int) (bool, error) {
	return false, r.err
}

// brokenCache fails every operation; reads must still come back correct.
type brokenCache struct{}

var errCacheDown = errors.New("cache backend down")

func (brokenCache) GetOrFetch(ctx context.Context, key string, tags []string, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	return nil, errCacheDown
}

func (brokenCache) FlushTags(ctx context.Context, tags ...string) error {
	return errCacheDown
}

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func strptr(s string) *string { return &s }

func intptr(n int) *int { return &n }
