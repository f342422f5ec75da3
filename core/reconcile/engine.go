package reconcile

import (
	"context"
	"sort"
)

// ReconcileAll performs a full reconciliation across every source.
// Indices are always rebuilt; results are sorted by ID.
func ReconcileAll(ctx context.Context, spec *Spec) ([]ReconcileResult, error) {
	cache, err := BuildCache(ctx, spec)
	if err != nil {
		return nil, err
	}
	return reconcileFromCache(cache, spec.Adapter), nil
}

// ReconcileOne performs a targeted reconciliation for a single entity key.
// It uses the cached indices when CacheTTL is set.
func ReconcileOne(ctx context.Context, spec *Spec, key string) (*ReconcileResult, error) {
	var (
		cache *ReconcileCache
		err   error
	)
	if spec.CacheTTL > 0 {
		cache, err = GetOrBuildCache(ctx, spec)
	} else {
		cache, err = BuildCache(ctx, spec)
	}
	if err != nil {
		return nil, err
	}

	result := buildResult(key, cache, spec.Adapter)
	return &result, nil
}

func reconcileFromCache(cache *ReconcileCache, adapter Adapter) []ReconcileResult {
	union := buildUnion(cache)

	results := make([]ReconcileResult, 0, len(union))
	for key := range union {
		results = append(results, buildResult(key, cache, adapter))
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results
}

// buildUnion creates a union of all keys from every source.
func buildUnion(cache *ReconcileCache) map[string]struct{} {
	union := make(map[string]struct{})
	for _, idx := range cache.Indices {
		for key := range idx {
			union[key] = struct{}{}
		}
	}
	return union
}

// buildResult creates a ReconcileResult for a single key. Name and metadata
// come from the first source holding the entity.
func buildResult(key string, cache *ReconcileCache, adapter Adapter) ReconcileResult {
	result := ReconcileResult{
		ID:      key,
		Present: make(map[string]bool, len(cache.Sources)),
	}

	var named bool
	for _, source := range cache.Sources {
		item, ok := cache.Indices[source][key]
		result.Present[source] = ok
		if ok && !named {
			result.Name = adapter.ResolveName(key, item)
			result.Metadata = adapter.GetMetadata(key, item)
			named = true
		}
	}

	canonical, ok := cache.Indices[cache.Sources[0]][key]
	if !ok {
		return result
	}
	for _, source := range cache.Sources[1:] {
		replica, ok := cache.Indices[source][key]
		if !ok {
			continue
		}
		if diff := adapter.CompareFields(canonical, replica); len(diff) > 0 {
			if result.Mismatch == nil {
				result.Mismatch = make(map[string][]string)
			}
			result.Mismatch[source] = diff
		}
	}
	return result
}
