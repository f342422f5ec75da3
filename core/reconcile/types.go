package reconcile

import (
	"strings"
	"time"
)

// ReconcileResult represents the reconciliation output for a single entity.
// It contains presence flags for each source and any detected mismatches.
type ReconcileResult struct {
	// ID is the entity key, e.g. "artist:a1".
	ID string `json:"id"`

	// Name is the display name of the entity.
	Name string `json:"name"`

	// Present maps each source name to whether the entity exists there.
	Present map[string]bool `json:"present"`

	// Mismatch holds, per replica source, the fields that differ from the
	// canonical copy. Each string describes one field, e.g. "artists: [a1] != [a2]".
	Mismatch map[string][]string `json:"mismatch"`

	// Metadata contains model-specific arbitrary data (e.g. kind, studio).
	Metadata map[string]string `json:"metadata"`
}

// InSync reports whether the entity is present in every source without mismatches.
func (r ReconcileResult) InSync() bool {
	for _, ok := range r.Present {
		if !ok {
			return false
		}
	}
	return len(r.Mismatch) == 0
}

// MissingIn returns the sources the entity is absent from, in the order given.
func (r ReconcileResult) MissingIn(sources []string) []string {
	var out []string
	for _, s := range sources {
		if !r.Present[s] {
			out = append(out, s)
		}
	}
	return out
}

// Spec defines the configuration for a reconciliation operation.
type Spec struct {
	// Adapter provides model-specific reconciliation logic.
	Adapter Adapter

	// CacheTTL is the time-to-live for cached indices.
	// If zero, caching is disabled.
	CacheTTL time.Duration
}

// CacheKey returns a unique key for caching based on the adapter and its sources.
func (s *Spec) CacheKey() string {
	return s.Adapter.Name() + "|" + strings.Join(s.Adapter.Sources(), "|")
}

// Item represents one entity as loaded from a source.
// Adapters define the concrete type.
type Item any

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionPublish writes the canonical copy of an entity into a replica source.
	ActionPublish ActionType = "publish"
	// ActionDelete removes an entity from a replica source.
	ActionDelete ActionType = "delete"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Source is the replica the action targets.
	Source string `json:"source"`

	// Key is the entity identifier.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Item stores the canonical copy for publish actions.
	Item Item `json:"-"`
}

// ReconcileOptions controls planning and execution.
type ReconcileOptions struct {
	// DryRun plans actions without executing them.
	DryRun bool
	// DoPurge plans deletion of entities missing from the canonical source.
	DoPurge bool
	// DoSync plans publishing of missing or drifted entities.
	DoSync bool
	// Confirmed must be set for ApplyPlan to execute anything.
	Confirmed bool
}

// PlanSummary aggregates a reconcile plan.
type PlanSummary struct {
	TotalItems int `json:"total_items"`
	InSync     int `json:"in_sync"`
	// Missing counts, per replica, entities present canonically but absent there.
	Missing map[string]int `json:"missing"`
	// Extra counts, per replica, entities absent canonically but present there.
	Extra        map[string]int `json:"extra"`
	Mismatches   int            `json:"mismatches"`
	PurgeActions int            `json:"purge_actions"`
	SyncActions  int            `json:"sync_actions"`
}

// ReconcilePlan is the output of ReconcileWithPlan.
type ReconcilePlan struct {
	Results []ReconcileResult `json:"results"`
	Actions []Action          `json:"actions"`
	Summary PlanSummary       `json:"summary"`
}
