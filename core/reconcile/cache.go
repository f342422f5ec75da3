package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ReconcileCache holds pre-built indices for fast targeted reconciliation.
type ReconcileCache struct {
	// Sources is the adapter's source list at build time, canonical first.
	Sources []string

	// Indices maps each source name to its entities by key.
	Indices map[string]map[string]Item

	// Built is the timestamp when this cache was built.
	Built time.Time

	// TTL is the time-to-live for this cache.
	TTL time.Duration
}

// IsExpired returns true if this cache has expired based on its TTL.
func (c *ReconcileCache) IsExpired() bool {
	if c.TTL == 0 {
		return true
	}
	return time.Since(c.Built) > c.TTL
}

// cacheStore holds all reconcile caches keyed by spec cache key.
type cacheStore struct {
	mu     sync.RWMutex
	caches map[string]*ReconcileCache
	sf     singleflight.Group
}

var globalCacheStore = &cacheStore{
	caches: make(map[string]*ReconcileCache),
}

// BuildCache loads every source concurrently. The first failing source cancels
// the others. It does NOT store the cache; use GetOrBuildCache for that.
func BuildCache(ctx context.Context, spec *Spec) (*ReconcileCache, error) {
	sources := spec.Adapter.Sources()
	if len(sources) == 0 {
		return nil, fmt.Errorf("adapter %s has no sources", spec.Adapter.Name())
	}

	indices := make([]map[string]Item, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		g.Go(func() error {
			idx, err := spec.Adapter.LoadIndex(gctx, source)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", source, err)
			}
			indices[i] = idx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cache := &ReconcileCache{
		Sources: sources,
		Indices: make(map[string]map[string]Item, len(sources)),
		Built:   time.Now(),
		TTL:     spec.CacheTTL,
	}
	for i, source := range sources {
		if indices[i] == nil {
			indices[i] = map[string]Item{}
		}
		cache.Indices[source] = indices[i]
	}
	return cache, nil
}

// GetOrBuildCache retrieves a cache for the given spec from the store,
// or builds a new one if it doesn't exist or has expired.
// Concurrent callers for the same spec share one build.
func GetOrBuildCache(ctx context.Context, spec *Spec) (*ReconcileCache, error) {
	cacheKey := spec.CacheKey()

	globalCacheStore.mu.RLock()
	cache, exists := globalCacheStore.caches[cacheKey]
	globalCacheStore.mu.RUnlock()

	if exists && !cache.IsExpired() {
		return cache, nil
	}

	result, err, _ := globalCacheStore.sf.Do(cacheKey, func() (interface{}, error) {
		globalCacheStore.mu.RLock()
		cache, exists := globalCacheStore.caches[cacheKey]
		globalCacheStore.mu.RUnlock()

		if exists && !cache.IsExpired() {
			return cache, nil
		}

		newCache, err := BuildCache(ctx, spec)
		if err != nil {
			return nil, err
		}

		globalCacheStore.mu.Lock()
		globalCacheStore.caches[cacheKey] = newCache
		globalCacheStore.mu.Unlock()

		return newCache, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*ReconcileCache), nil
}

// InvalidateCache removes the cache for the given spec from the store.
// Callers that write to a source invalidate so the next read sees the change.
func InvalidateCache(spec *Spec) {
	cacheKey := spec.CacheKey()
	globalCacheStore.mu.Lock()
	delete(globalCacheStore.caches, cacheKey)
	globalCacheStore.mu.Unlock()
}
