package cachemanager

import (
	"context"
	"time"
)

// ReadThrough wraps a fetch function with a Manager. Lookups hit the
// cache first and fall back to the fetch, storing its result.
type ReadThrough[K ~string, V any, I any] struct {
	cache     Manager[K, V]
	fetch     func(ctx context.Context, input I) (V, error)
	skipCache bool
}

func NewReadThrough[K ~string, V any, I any](
	cache Manager[K, V],
	fetch func(ctx context.Context, input I) (V, error),
	skipCache bool,
) *ReadThrough[K, V, I] {
	return &ReadThrough[K, V, I]{
		cache:     cache,
		fetch:     fetch,
		skipCache: skipCache,
	}
}

func (r *ReadThrough[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.skipCache {
		return r.fetch(ctx, input)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fetch(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}

func (r *ReadThrough[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.skipCache {
		return r.fetch(ctx, input)
	}

	if value, ok := r.cache.GetWithRefresh(ctx, key, ttl); ok {
		return value, nil
	}

	value, err := r.fetch(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}
