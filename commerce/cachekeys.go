package commerce

import "fmt"

// Cache TTL is uniform across all entries and configured on the store itself;
// the key/tag scheme below is the only per-entity caching knowledge.
//
// Keys and tags are derived by small pure functions instead of a polymorphic
// interface on the models: the mapping of entity kind to tagging rule is
// known at compile time.

// Collection cache keys.
const (
	AllCategoriesKey = "all_categories"
	AllProductsKey   = "all_products"
	AllOrdersKey     = "all_orders"
)

// Collection tags. Flushing one of these invalidates every cached entry of
// that entity kind, single entries included.
const (
	CategoriesTag = "categories"
	ProductsTag   = "products"
	OrdersTag     = "orders"
)

// CategoryCacheKey returns the cache key for a single category entry.
func CategoryCacheKey(id int64) string { return fmt.Sprintf("category_%d", id) }

// CategoryTag returns the tag scoping cache entries to one category. Product
// entries cached under a category carry it too, so a category write can
// invalidate them without enumerating product ids.
func CategoryTag(id int64) string { return CategoryCacheKey(id) }

// CategoryCacheTags returns the tag set for a single category entry.
func CategoryCacheTags(id int64) []string {
	return []string{CategoriesTag, CategoryTag(id)}
}

// ProductCacheKey returns the cache key for a single product entry.
func ProductCacheKey(id int64) string { return fmt.Sprintf("product_%d", id) }

// ProductTag returns the tag scoping cache entries to one product.
func ProductTag(id int64) string { return ProductCacheKey(id) }

// ProductCacheTags returns the tag set for a single product entry.
func ProductCacheTags(id int64) []string {
	return []string{ProductsTag, ProductTag(id)}
}

// OrderCacheKey returns the cache key for a single order entry.
func OrderCacheKey(id int64) string { return fmt.Sprintf("order_%d", id) }

// OrderTag returns the tag scoping cache entries to one order.
func OrderTag(id int64) string { return OrderCacheKey(id) }

// OrderCacheTags returns the tag set for a single order entry.
func OrderCacheTags(id int64) []string {
	return []string{OrdersTag, OrderTag(id)}
}
