package mirror

import (
	"context"
	"encoding/json"
	"fmt"

	"relationship-manager/core/searchindex"
	"relationship-manager/core/storage"
	"relationship-manager/feature/relationships/models"

	"gorm.io/gorm"
)

// Source names accepted by Open.
const (
	SourceFile      = "file"
	SourceBucket    = "bucket"
	SourceDocuments = "documents"
	SourceIndex     = "index"
)

// Mirror is one persisted copy of the dataset. Mirrors store fields verbatim
// and never alter relationship fields.
type Mirror interface {
	// Name returns the source name of the mirror.
	Name() string
	// Load reads the whole dataset.
	Load(ctx context.Context) (models.Dataset, error)
	// Save replaces the whole dataset.
	Save(ctx context.Context, ds models.Dataset) error
}

// Deps carries the connections a mirror may need. Only the ones required by
// the requested mirror must be set.
type Deps struct {
	FixturePath   string
	Storage       storage.Client
	Bucket        string
	FixtureObject string
	DB            *gorm.DB
	Search        *searchindex.Client
}

// Open returns the mirror registered under name.
func Open(ctx context.Context, name string, deps Deps) (Mirror, error) {
	switch name {
	case SourceFile:
		if deps.FixturePath == "" {
			return nil, fmt.Errorf("mirror %s: fixture path not configured", name)
		}
		return NewFileMirror(deps.FixturePath), nil
	case SourceBucket:
		if deps.Storage == nil || deps.Bucket == "" {
			return nil, fmt.Errorf("mirror %s: storage not configured", name)
		}
		return NewBucketMirror(deps.Storage, deps.Bucket, deps.FixtureObject), nil
	case SourceDocuments:
		if deps.DB == nil {
			return nil, fmt.Errorf("mirror %s: database not connected", name)
		}
		m := NewDocumentMirror(deps.DB)
		if err := m.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return m, nil
	case SourceIndex:
		if deps.Search == nil {
			return nil, fmt.Errorf("mirror %s: search index not configured", name)
		}
		return NewIndexMirror(deps.Search), nil
	default:
		return nil, fmt.Errorf("unknown mirror %q", name)
	}
}

// Names lists every source name in a stable order.
func Names() []string {
	return []string{SourceFile, SourceBucket, SourceDocuments, SourceIndex}
}

func encodeFixture(ds models.Dataset) ([]byte, error) {
	if ds.Artists == nil {
		ds.Artists = []models.Artist{}
	}
	if ds.Studios == nil {
		ds.Studios = []models.Studio{}
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode fixture: %w", err)
	}
	return append(data, '\n'), nil
}

func decodeFixture(data []byte) (models.Dataset, error) {
	var ds models.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return models.Dataset{}, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return ds, nil
}
