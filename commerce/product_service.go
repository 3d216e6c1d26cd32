package commerce

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-commerce-core/cache"
)

// ProductService wraps the product repository with cache-aware reads and
// cache-invalidating writes. Product writes also invalidate the affected
// category tags, because category reads derive product counts.
type ProductService struct {
	repo  ProductRepository
	cache cache.TaggedCache
	log   logrus.FieldLogger
}

// NewProductService wires a product service.
func NewProductService(repo ProductRepository, store cache.TaggedCache, log logrus.FieldLogger) *ProductService {
	return &ProductService{repo: repo, cache: store, log: log}
}

// ListAll returns every product with its category, served through the cache.
func (s *ProductService) ListAll(ctx context.Context) ([]Product, error) {
	return cache.Remember(ctx, s.cache, AllProductsKey, []string{ProductsTag}, func(ctx context.Context) ([]Product, error) {
		return s.repo.List(ctx)
	})
}

// Create persists a new product and invalidates the product listings plus the
// owning category, whose derived counts just changed.
func (s *ProductService) Create(ctx context.Context, data ProductData) (*Product, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	product := &Product{
		Name:        data.Name,
		Description: data.Description,
		SKU:         data.SKU,
		Price:       data.Price,
		Quantity:    data.Quantity,
		CategoryID:  data.CategoryID,
		IsActive:    data.IsActive,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.flush(ctx, ProductsTag, CategoryTag(product.CategoryID))
	return s.repo.FindWithCategory(ctx, product.ID)
}

// GetByID returns the product with its category, or (nil, nil) when it does
// not exist. The absent result is cached too.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*Product, error) {
	return cache.Remember(ctx, s.cache, ProductCacheKey(id), ProductCacheTags(id), func(ctx context.Context) (*Product, error) {
		return s.repo.FindWithCategory(ctx, id)
	})
}

// Update applies the non-nil fields of data and returns the refreshed
// product, or (nil, nil) when it does not exist.
//
// When the update moves the product to another category, both the old and the
// new category tags are flushed. Flushing only one would leave stale derived
// counts reachable under the other.
func (s *ProductService) Update(ctx context.Context, id int64, data ProductUpdate) (*Product, error) {
	product, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	if product == nil {
		return nil, nil
	}

	oldCategoryID := product.CategoryID

	if data.Name != nil {
		product.Name = *data.Name
	}
	if data.Description != nil {
		product.Description = *data.Description
	}
	if data.SKU != nil {
		product.SKU = *data.SKU
	}
	if data.Price != nil {
		product.Price = *data.Price
	}
	if data.Quantity != nil {
		product.Quantity = *data.Quantity
	}
	if data.CategoryID != nil {
		product.CategoryID = *data.CategoryID
	}
	if data.IsActive != nil {
		product.IsActive = *data.IsActive
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	s.flush(ctx, ProductsTag, ProductTag(id), CategoryTag(oldCategoryID))
	if product.CategoryID != oldCategoryID {
		s.flush(ctx, CategoryTag(product.CategoryID))
	}

	return s.repo.FindWithCategory(ctx, id)
}

// Delete removes the product. It reports false when no such product exists.
func (s *ProductService) Delete(ctx context.Context, id int64) (bool, error) {
	product, err := s.repo.Find(ctx, id)
	if err != nil {
		return false, fmt.Errorf("find product %d: %w", id, err)
	}
	if product == nil {
		return false, nil
	}

	deleted, err := s.repo.Delete(ctx, product)
	if err != nil {
		return false, fmt.Errorf("delete product %d: %w", id, err)
	}
	if deleted {
		s.flush(ctx, ProductsTag, ProductTag(id), CategoryTag(product.CategoryID))
	}
	return deleted, nil
}

func (s *ProductService) flush(ctx context.Context, tags ...string) {
	if err := s.cache.FlushTags(ctx, tags...); err != nil {
		s.log.WithError(err).WithField("tags", tags).Warn("product cache flush failed")
		return
	}
	s.log.WithField("tags", tags).Debug("product cache flushed")
}
