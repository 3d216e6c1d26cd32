// Package cache provides the tag-indexed caching contract used by the entity services.
//
// # Overview
//
// This package exports the TaggedCache interface and a generic read-through
// helper:
//
//   - TaggedCache: get-or-compute reads plus bulk invalidation by tag
//   - Remember: a type-safe wrapper that preserves the fetched type
//
// Tags let one write invalidate multiple derived cache entries (a single
// entity entry, a collection entry, cross-entity entries) without tracking
// every dependent key individually. A product entry, for example, is stored
// under "product_42" and indexed by the "products" and "product_42" tags;
// flushing "products" removes it together with every other product entry.
//
// # Basic Usage
//
//	store, err := cache.NewTaggedCache(cache.DefaultConfig())
//
//	product, err := cache.Remember(ctx, store, "product_42", []string{"products", "product_42"},
//		func(ctx context.Context) (*commerce.Product, error) {
//			return repo.FindWithCategory(ctx, 42)
//		})
//
//	// After a write:
//	store.FlushTags(ctx, "products", "product_42")
//
// # Failure Semantics
//
// The cache holds derived, expendable copies and is never the only source for
// a value. Remember therefore treats a failing backend as a cache miss and
// serves the read from the producer directly; producer errors are returned
// unchanged.
//
// # Concurrency
//
// All operations are safe for concurrent use. Concurrent misses on the same
// key are deduplicated by the default backend, so the producer runs once per
// cold key.
package cache
