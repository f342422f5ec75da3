package reconcile

import "context"

// Adapter defines the model-specific logic for reconciling entities across
// sources. The first entry of Sources is canonical; the rest are replicas
// compared against it.
type Adapter interface {
	// Name returns the adapter name, used in cache keys and errors.
	Name() string

	// Sources lists the source names, canonical first.
	Sources() []string

	// LoadIndex loads every entity held by source, keyed by entity key.
	LoadIndex(ctx context.Context, source string) (map[string]Item, error)

	// ResolveName returns a display name for the entity.
	ResolveName(key string, item Item) string

	// CompareFields returns descriptions of the fields where replica differs
	// from canonical. An empty slice means the copies agree.
	CompareFields(canonical, replica Item) []string

	// GetMetadata returns model-specific fields to attach to a result.
	GetMetadata(key string, item Item) map[string]string
}

// Mutator is implemented by adapters that can write to replica sources.
type Mutator interface {
	Adapter

	// Publish writes item under key into source.
	Publish(ctx context.Context, source, key string, item Item) error

	// Delete removes key from source.
	Delete(ctx context.Context, source, key string) error
}

// BatchPublisher is an optional Mutator extension that publishes many
// entities into one source at once.
type BatchPublisher interface {
	PublishBatch(ctx context.Context, source string, actions []Action) error
}

// BatchDeleter is an optional Mutator extension that removes many keys from
// one source at once.
type BatchDeleter interface {
	DeleteBatch(ctx context.Context, source string, keys []string) error
}
