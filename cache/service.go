package cache

import (
	"context"
	"errors"
	"fmt"
)

// FetchFn is the function signature TaggedCache expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// TaggedCache exposes the read-through caching operations the entity services need.
// Every entry is stored under a key and indexed by zero or more tags; flushing a
// tag invalidates every entry carrying it, regardless of key.
// It is exported so that other packages can provide alternate cache backends.
type TaggedCache interface {
	// GetOrFetch returns the live entry stored under key if one exists.
	// Otherwise it invokes fetchFn synchronously, stores the result under key
	// indexed by tags, and returns it.
	GetOrFetch(ctx context.Context, key string, tags []string, fetchFn func(ctx context.Context) (any, error)) (any, error)

	// FlushTags invalidates every entry associated with any of the given tags.
	// Entries behave as cache misses immediately after the call returns.
	FlushTags(ctx context.Context, tags ...string) error
}

// fetchError marks an error as originating from the producer rather than the
// cache backend, so Remember can tell the two failure modes apart.
type fetchError struct {
	err error
}

func (e *fetchError) Error() string { return e.err.Error() }

func (e *fetchError) Unwrap() error { return e.err }

// Remember is a type-safe wrapper around TaggedCache.GetOrFetch.
//
// Producer errors pass through unchanged. A failure of the cache backend itself
// degrades to a direct call of fetchFn: a broken cache must never turn a
// correct read into an outage.
func Remember[T any](ctx context.Context, store TaggedCache, key string, tags []string, fetchFn FetchFn[T]) (T, error) {
	result, err := store.GetOrFetch(ctx, key, tags, func(ctx context.Context) (any, error) {
		value, err := fetchFn(ctx)
		if err != nil {
			return nil, &fetchError{err: err}
		}
		return value, nil
	})
	if err != nil {
		var fe *fetchError
		if errors.As(err, &fe) {
			var zero T
			return zero, fe.err
		}
		// Cache backend failure: serve the read from the source of truth.
		return fetchFn(ctx)
	}

	typed, ok := result.(T)
	if !ok && result != nil {
		var zero T
		return zero, fmt.Errorf("cache: entry under %q holds %T, not the requested type", key, result)
	}
	return typed, nil
}
