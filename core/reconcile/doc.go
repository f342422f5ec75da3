// Package reconcile compares copies of the same entities held by several
// sources and plans the writes that bring replicas back in line.
//
// One source is canonical; every other source is a replica compared against
// it. An entity is keyed the same way in every source, so reconciliation is a
// union of keys followed by per-key presence checks and field comparisons.
//
// # Architecture
//
// 1. Engine: builds the union of keys, detects presence/absence per source and
// asks the adapter for field mismatches between the canonical copy and each replica.
//
// 2. Adapter: model-specific loading, naming and comparison. Adapters that can
// write implement Mutator and optionally BatchPublisher/BatchDeleter.
//
// 3. Cache: TTL-based caching of loaded indices with stampede protection, so
// repeated targeted lookups do not reload every source.
//
// # Usage Example
//
//	spec := &reconcile.Spec{
//	    Adapter:  adapter,
//	    CacheTTL: time.Minute,
//	}
//
//	results, err := reconcile.ReconcileAll(ctx, spec)
//
//	plan, err := reconcile.ReconcileWithPlan(ctx, spec, reconcile.ReconcileOptions{DoSync: true})
//	executed, err := reconcile.ApplyPlan(ctx, spec, plan, reconcile.ReconcileOptions{DoSync: true, Confirmed: true})
//
// Sources are loaded concurrently; the first failure cancels the rest.
package reconcile
