package cacheinfra

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc cache adapter.
// It encapsulates the core sturdyc options needed for cache initialization.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is the time-to-live for cached entries. After this duration,
	// entries are considered expired. Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	// Default: 10 (evict 10% of entries)
	EvictionPercentage int

	// MissingRecordStorage enables storage for missing record flags.
	// When enabled, the cache will remember keys that returned no results
	// to prevent repeated database queries for non-existent records.
	MissingRecordStorage bool

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
// The one hour TTL matches how long the entity services are willing to serve
// a derived value between invalidations.
func DefaultConfig() Config {
	return Config{
		Capacity:             10000,
		NumShards:            256,
		TTL:                  time.Hour,
		EvictionPercentage:   10,
		MissingRecordStorage: true,
		EvictionInterval:     0, // Use default
	}
}

// ToSturdycOptions converts the Config to a sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly
// to sturdyc.New() and are not included in the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
// Returns an error if any configuration parameter is invalid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// SturdycStore wraps a sturdyc client with a tag index so entries can be
// invalidated in bulk by tag.
//
// The tag index maps each tag to the set of keys currently registered under
// it. Registration happens on every GetOrFetch call, before the read is
// served, so an entry is always reachable through each of its tags by the
// time the caller observes the value. Flushing a tag deletes every member key
// from the sturdyc client and drops the tag bucket.
type SturdycStore struct {
	client *sturdyc.Client[any]
	tags   *xsync.MapOf[string, *xsync.MapOf[string, struct{}]]
}

// NewSturdycStore creates a new tagged cache store backed by sturdyc.
// It validates the configuration and initializes a sturdyc client with the
// provided settings.
//
// sturdyc deduplicates concurrent fetches for the same key, so the producer
// runs once per cold key even under concurrent misses.
//
// Version compatibility note: this implementation assumes sturdyc v1.x API.
func NewSturdycStore(cfg Config) (*SturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycStore{
		client: client,
		tags:   xsync.NewMapOf[string, *xsync.MapOf[string, struct{}]](),
	}, nil
}

// GetOrFetch implements cache.TaggedCache.GetOrFetch.
// It registers key under each tag, then attempts to retrieve the value from
// the cache. On a miss the fetchFn is executed synchronously, the result is
// stored under key, and returned.
//
// A FlushTags call that lands while a fetch for the same key is in flight
// does not cancel that fetch; its result may still be stored after the flush
// and serve a pre-flush value until the next flush or TTL expiry.
func (s *SturdycStore) GetOrFetch(ctx context.Context, key string, tags []string, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	for _, tag := range tags {
		s.register(tag, key)
	}

	// sturdyc type-asserts the fetched value, and a nil interface fails that
	// assertion, replacing the producer's error with sturdyc's own. Capture
	// the error on the side so the caller always sees the original.
	var fetchErr error
	value, err := s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		v, ferr := fetchFn(ctx)
		if ferr != nil {
			fetchErr = ferr
			return nil, ferr
		}
		return v, nil
	})
	if fetchErr != nil {
		return nil, fetchErr
	}
	return value, err
}

// FlushTags implements cache.TaggedCache.FlushTags.
// Every entry registered under any of the given tags is removed, and only
// those; keys that happen to share a prefix with a tag are untouched.
func (s *SturdycStore) FlushTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		members, ok := s.tags.LoadAndDelete(tag)
		if !ok {
			continue
		}
		members.Range(func(key string, _ struct{}) bool {
			s.client.Delete(key)
			return true
		})
	}
	return nil
}

// Size returns the number of entries currently held by the underlying client.
// Exposed for tests and monitoring.
func (s *SturdycStore) Size() int {
	return s.client.Size()
}

func (s *SturdycStore) register(tag, key string) {
	members, _ := s.tags.LoadOrCompute(tag, func() *xsync.MapOf[string, struct{}] {
		return xsync.NewMapOf[string, struct{}]()
	})
	members.Store(key, struct{}{})
}
