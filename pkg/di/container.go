package di

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-commerce-core/cache"
	"github.com/goliatone/go-commerce-core/commerce"
	"github.com/goliatone/go-commerce-core/storage"
)

// Container provides dependency injection for the commerce core.
// It manages singleton instances of the tagged cache, the repositories and
// the entity services, all wired against one database handle. There is no
// ambient global state: every dependency is threaded through explicitly.
type Container struct {
	db     *storage.DB
	cache  cache.TaggedCache
	log    logrus.FieldLogger
	config cache.Config

	categories *commerce.CategoryService
	products   *commerce.ProductService
	orders     *commerce.OrderService
}

// NewContainer creates a DI container on the given database with the provided
// cache configuration.
func NewContainer(db *storage.DB, cfg cache.Config, log logrus.FieldLogger) (*Container, error) {
	store, err := cache.NewTaggedCache(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}

	categoryRepo := storage.NewCategoryRepository(db)
	productRepo := storage.NewProductRepository(db)
	orderRepo := storage.NewOrderRepository(db)

	return &Container{
		db:         db,
		cache:      store,
		log:        log,
		config:     cfg,
		categories: commerce.NewCategoryService(categoryRepo, store, log),
		products:   commerce.NewProductService(productRepo, store, log),
		orders:     commerce.NewOrderService(orderRepo, productRepo, db, store, log),
	}, nil
}

// NewContainerWithDefaults creates a DI container using the default cache
// configuration. Convenience constructor for typical use.
func NewContainerWithDefaults(db *storage.DB) (*Container, error) {
	return NewContainer(db, cache.DefaultConfig(), nil)
}

// Categories returns the singleton category service.
func (c *Container) Categories() *commerce.CategoryService {
	return c.categories
}

// Products returns the singleton product service.
func (c *Container) Products() *commerce.ProductService {
	return c.products
}

// Orders returns the singleton order service.
func (c *Container) Orders() *commerce.OrderService {
	return c.orders
}

// Cache returns the singleton tagged cache instance.
// This allows access to the underlying store for advanced use cases.
func (c *Container) Cache() cache.TaggedCache {
	return c.cache
}

// Config returns a copy of the cache configuration used by this container.
// This is useful for debugging and monitoring purposes.
func (c *Container) Config() cache.Config {
	return c.config
}
