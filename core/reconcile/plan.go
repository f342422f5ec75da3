package reconcile

import (
	"context"
	"fmt"
	"strings"
)

// ReconcileWithPlan performs reconciliation and returns a plan with results and actions.
// It does NOT execute actions; use ApplyPlan for that.
func ReconcileWithPlan(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, error) {
	cache, err := GetOrBuildCache(ctx, spec)
	if err != nil {
		return nil, err
	}

	results := reconcileFromCache(cache, spec.Adapter)
	summary, actions := buildPlanFromResults(results, cache, opts)

	return &ReconcilePlan{
		Results: results,
		Actions: actions,
		Summary: summary,
	}, nil
}

// ApplyPlan executes the actions in a reconcile plan.
// Returns the number of actions executed and any error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
// The spec's cache is invalidated once anything was written.
func ApplyPlan(ctx context.Context, spec *Spec, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return 0, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}
	defer func() {
		if executed > 0 {
			InvalidateCache(spec)
		}
	}()

	// Group by source, keeping the order sources first appear in the plan.
	var order []string
	deletes := make(map[string][]string)
	publishes := make(map[string][]Action)
	for _, action := range plan.Actions {
		if _, seen := deletes[action.Source]; !seen {
			if _, seen := publishes[action.Source]; !seen {
				order = append(order, action.Source)
			}
		}
		switch action.Type {
		case ActionDelete:
			deletes[action.Source] = append(deletes[action.Source], action.Key)
		case ActionPublish:
			publishes[action.Source] = append(publishes[action.Source], action)
		}
	}

	for _, source := range order {
		if keys := deletes[source]; len(keys) > 0 {
			if batch, ok := mutator.(BatchDeleter); ok {
				if err := batch.DeleteBatch(ctx, source, keys); err != nil {
					return executed, fmt.Errorf("failed to batch delete from %s: %w", source, err)
				}
				executed += len(keys)
			} else {
				for _, key := range keys {
					if err := mutator.Delete(ctx, source, key); err != nil {
						return executed, fmt.Errorf("failed to delete %s from %s: %w", key, source, err)
					}
					executed++
				}
			}
		}

		if actions := publishes[source]; len(actions) > 0 {
			if batch, ok := mutator.(BatchPublisher); ok {
				if err := batch.PublishBatch(ctx, source, actions); err != nil {
					return executed, fmt.Errorf("failed to batch publish to %s: %w", source, err)
				}
				executed += len(actions)
			} else {
				for _, action := range actions {
					if err := mutator.Publish(ctx, source, action.Key, action.Item); err != nil {
						return executed, fmt.Errorf("failed to publish %s to %s: %w", action.Key, source, err)
					}
					executed++
				}
			}
		}
	}

	return executed, nil
}

// ReconcileAndApply is a convenience wrapper that plans and optionally applies actions.
func ReconcileAndApply(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, int, error) {
	plan, err := ReconcileWithPlan(ctx, spec, opts)
	if err != nil {
		return nil, 0, err
	}

	executed, err := ApplyPlan(ctx, spec, plan, opts)
	return plan, executed, err
}

// buildPlanFromResults generates a summary and action plan from reconciliation results.
// The canonical source is never a target: replicas converge on it.
func buildPlanFromResults(results []ReconcileResult, cache *ReconcileCache, opts ReconcileOptions) (PlanSummary, []Action) {
	canonical := cache.Sources[0]
	replicas := cache.Sources[1:]

	summary := PlanSummary{
		TotalItems: len(results),
		Missing:    make(map[string]int, len(replicas)),
		Extra:      make(map[string]int, len(replicas)),
	}
	var actions []Action

	for _, result := range results {
		if result.InSync() {
			summary.InSync++
		}
		if len(result.Mismatch) > 0 {
			summary.Mismatches++
		}

		if !result.Present[canonical] {
			for _, source := range replicas {
				if !result.Present[source] {
					continue
				}
				summary.Extra[source]++
				if opts.DoPurge {
					actions = append(actions, Action{
						Type:   ActionDelete,
						Source: source,
						Key:    result.ID,
						Reason: "missing in: " + canonical,
					})
					summary.PurgeActions++
				}
			}
			continue
		}

		item := cache.Indices[canonical][result.ID]
		for _, source := range replicas {
			var reason string
			switch {
			case !result.Present[source]:
				summary.Missing[source]++
				reason = "missing in: " + source
			case len(result.Mismatch[source]) > 0:
				reason = "mismatch: " + strings.Join(result.Mismatch[source], "; ")
			default:
				continue
			}
			if opts.DoSync {
				actions = append(actions, Action{
					Type:   ActionPublish,
					Source: source,
					Key:    result.ID,
					Reason: reason,
					Item:   item,
				})
				summary.SyncActions++
			}
		}
	}

	return summary, actions
}
