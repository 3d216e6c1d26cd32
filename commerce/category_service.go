package commerce

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-commerce-core/cache"
)

// CategoryService wraps the category repository with cache-aware reads and
// cache-invalidating writes.
type CategoryService struct {
	repo  CategoryRepository
	cache cache.TaggedCache
	log   logrus.FieldLogger
}

// NewCategoryService wires a category service. Dependencies are explicit;
// there is no ambient state.
func NewCategoryService(repo CategoryRepository, store cache.TaggedCache, log logrus.FieldLogger) *CategoryService {
	return &CategoryService{repo: repo, cache: store, log: log}
}

// ListAll returns every category with its derived product count, served
// through the cache.
func (s *CategoryService) ListAll(ctx context.Context) ([]Category, error) {
	return cache.Remember(ctx, s.cache, AllCategoriesKey, []string{CategoriesTag}, func(ctx context.Context) ([]Category, error) {
		return s.repo.List(ctx)
	})
}

// Create persists a new category and invalidates cached collection listings.
func (s *CategoryService) Create(ctx context.Context, data CategoryData) (*Category, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	category := &Category{
		Name:        data.Name,
		Description: data.Description,
		IsActive:    data.IsActive,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.flush(ctx, CategoriesTag)
	return category, nil
}

// GetByID returns the category with its product count, or (nil, nil) when it
// does not exist. The absent result is cached too.
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*Category, error) {
	return cache.Remember(ctx, s.cache, CategoryCacheKey(id), CategoryCacheTags(id), func(ctx context.Context) (*Category, error) {
		return s.repo.Find(ctx, id)
	})
}

// Update applies the non-nil fields of data and returns the refreshed
// category, or (nil, nil) when it does not exist.
func (s *CategoryService) Update(ctx context.Context, id int64, data CategoryUpdate) (*Category, error) {
	category, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category %d: %w", id, err)
	}
	if category == nil {
		return nil, nil
	}

	if data.Name != nil {
		category.Name = *data.Name
	}
	if data.Description != nil {
		category.Description = *data.Description
	}
	if data.IsActive != nil {
		category.IsActive = *data.IsActive
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}

	s.flush(ctx, CategoriesTag, CategoryTag(id))
	return s.repo.Find(ctx, id)
}

// Delete removes the category. It reports false when no such category exists.
// Deletion is a hard delete.
func (s *CategoryService) Delete(ctx context.Context, id int64) (bool, error) {
	category, err := s.repo.Find(ctx, id)
	if err != nil {
		return false, fmt.Errorf("find category %d: %w", id, err)
	}
	if category == nil {
		return false, nil
	}

	deleted, err := s.repo.Delete(ctx, category)
	if err != nil {
		return false, fmt.Errorf("delete category %d: %w", id, err)
	}
	if deleted {
		s.flush(ctx, CategoriesTag, CategoryTag(id))
	}
	return deleted, nil
}

// flush invalidates tags after a committed write. A failing cache store is
// logged and otherwise ignored: the next read repopulates from persistence.
func (s *CategoryService) flush(ctx context.Context, tags ...string) {
	if err := s.cache.FlushTags(ctx, tags...); err != nil {
		s.log.WithError(err).WithField("tags", tags).Warn("category cache flush failed")
		return
	}
	s.log.WithField("tags", tags).Debug("category cache flushed")
}
