// Package commerce implements the caching and consistency core of the shop
// backend: categories, products and orders behind a tag-indexed read cache.
//
// # Overview
//
// Each entity gets a service that wraps its repository:
//
//   - reads are served through the tagged cache, computing and storing on miss
//   - writes go to the repository and then flush the tags the write affected
//
// The cache holds derived, expendable copies; persistence owns durable state.
// A flush therefore only ever forces the next read back to the repository.
//
// # Key/Tag Scheme
//
// Keys and tags are fixed per entity kind (see cachekeys.go):
//
//	all_categories      tags: categories
//	category_<id>       tags: categories, category_<id>
//	all_products        tags: products
//	product_<id>        tags: products, product_<id>
//	all_orders          tags: orders
//	order_<id>          tags: orders, order_<id>
//
// category_<id> doubles as a cross-entity tag: product writes flush it so
// cached category reads recompute their derived product counts.
//
// # The Order Transaction
//
// OrderService.Create is the one operation with real cross-entity invariants.
// It snapshots the product price into the order, computes the total, inserts
// the order and decrements stock inside a single transaction. The decrement
// is a guarded conditional update, so concurrent orders for the same product
// can never drive stock below zero; losing the guard race surfaces as
// ErrInsufficientStock and rolls the whole unit back. Cache tags are flushed
// strictly after commit.
//
// # Error Taxonomy
//
// Absent rows are (nil, nil) results, not errors. Business faults
// (ErrProductNotFound, ErrInsufficientStock, ValidationError) are typed and
// recognizable via IsBusinessError; anything else is a persistence failure.
package commerce
