package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"relationship-manager/core/reconcile"
	"relationship-manager/feature/relationships/mirror"
	"relationship-manager/feature/relationships/models"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Entity kinds used as key prefixes.
const (
	KindArtist = "artist"
	KindStudio = "studio"
)

// ArtistKey returns the reconcile key of an artist.
func ArtistKey(id string) string { return KindArtist + ":" + id }

// StudioKey returns the reconcile key of a studio.
func StudioKey(id string) string { return KindStudio + ":" + id }

// RelationshipAdapter implements reconcile.Mutator over relationship mirrors.
// The first mirror is canonical. Writes republish the canonical dataset as a
// whole, since mirrors only support full replacement.
type RelationshipAdapter struct {
	mirrors []mirror.Mirror
	byName  map[string]mirror.Mirror

	mu        sync.Mutex
	canonical *models.Dataset
	published map[string]bool
}

// NewAdapter creates an adapter with canonical as the reference copy.
func NewAdapter(canonical mirror.Mirror, replicas ...mirror.Mirror) *RelationshipAdapter {
	a := &RelationshipAdapter{
		mirrors:   append([]mirror.Mirror{canonical}, replicas...),
		byName:    make(map[string]mirror.Mirror, len(replicas)+1),
		published: make(map[string]bool),
	}
	for _, m := range a.mirrors {
		a.byName[m.Name()] = m
	}
	return a
}

// Name returns the unique name of this adapter.
func (a *RelationshipAdapter) Name() string {
	return "relationships"
}

// Sources returns the mirror names, canonical first.
func (a *RelationshipAdapter) Sources() []string {
	names := make([]string, len(a.mirrors))
	for i, m := range a.mirrors {
		names[i] = m.Name()
	}
	return names
}

// LoadIndex loads one mirror and keys every record. When an ID repeats the
// first record wins; the validator reports the repeat separately.
func (a *RelationshipAdapter) LoadIndex(ctx context.Context, source string) (map[string]reconcile.Item, error) {
	m, ok := a.byName[source]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", source)
	}
	ds, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}

	if source == a.mirrors[0].Name() {
		a.mu.Lock()
		a.canonical = &ds
		a.published = make(map[string]bool)
		a.mu.Unlock()
	}

	index := make(map[string]reconcile.Item, len(ds.Artists)+len(ds.Studios))
	for _, artist := range ds.Artists {
		key := ArtistKey(artist.ArtistID)
		if _, dup := index[key]; !dup {
			index[key] = artist
		}
	}
	for _, studio := range ds.Studios {
		key := StudioKey(studio.StudioID)
		if _, dup := index[key]; !dup {
			index[key] = studio
		}
	}
	return index, nil
}

// ResolveName returns the display name of an artist or studio.
func (a *RelationshipAdapter) ResolveName(key string, item reconcile.Item) string {
	switch v := item.(type) {
	case models.Artist:
		return v.DisplayName
	case models.Studio:
		return v.StudioName
	}
	return key
}

var equateEmpty = cmpopts.EquateEmpty()

// CompareFields compares the relationship fields only. Profile fields such as
// ratings or styles are out of scope.
func (a *RelationshipAdapter) CompareFields(canonical, replica reconcile.Item) []string {
	mismatches := []string{}

	switch c := canonical.(type) {
	case models.Artist:
		r, ok := replica.(models.Artist)
		if !ok {
			return []string{"kind: artist != studio"}
		}
		var cRef, rRef models.StudioRef
		if c.StudioRef != nil {
			cRef = *c.StudioRef
		}
		if r.StudioRef != nil {
			rRef = *r.StudioRef
		}
		if (c.StudioRef == nil) != (r.StudioRef == nil) {
			mismatches = append(mismatches, fmt.Sprintf("studioRef: %s != %s", refString(c.StudioRef), refString(r.StudioRef)))
			return mismatches
		}
		if cRef.StudioID != rRef.StudioID {
			mismatches = append(mismatches, fmt.Sprintf("studioRef.studioId: %s != %s", cRef.StudioID, rRef.StudioID))
		}
		if cRef.StudioName != rRef.StudioName {
			mismatches = append(mismatches, fmt.Sprintf("studioRef.studioName: %q != %q", cRef.StudioName, rRef.StudioName))
		}
		if cRef.Address != rRef.Address {
			mismatches = append(mismatches, "studioRef.address differs")
		}

	case models.Studio:
		r, ok := replica.(models.Studio)
		if !ok {
			return []string{"kind: studio != artist"}
		}
		if !cmp.Equal(c.Artists, r.Artists, equateEmpty) {
			mismatches = append(mismatches, fmt.Sprintf("artists: [%s] != [%s]",
				strings.Join(c.Artists, ","), strings.Join(r.Artists, ",")))
		}
		if c.ArtistCount != r.ArtistCount {
			mismatches = append(mismatches, fmt.Sprintf("artistCount: %d != %d", c.ArtistCount, r.ArtistCount))
		}
		if !cmp.Equal(c.ArtistDetails, r.ArtistDetails, equateEmpty) {
			mismatches = append(mismatches, "artistDetails differ")
		}
		if !models.SameStyles(c.Specialties, r.Specialties) {
			mismatches = append(mismatches, fmt.Sprintf("specialties: [%s] != [%s]",
				strings.Join(c.Specialties, ","), strings.Join(r.Specialties, ",")))
		}
	}

	return mismatches
}

// GetMetadata returns the entity kind plus its side of the relationship.
func (a *RelationshipAdapter) GetMetadata(key string, item reconcile.Item) map[string]string {
	switch v := item.(type) {
	case models.Artist:
		meta := map[string]string{"kind": KindArtist}
		if v.StudioRef != nil {
			meta["studio"] = v.StudioRef.StudioID
		}
		return meta
	case models.Studio:
		return map[string]string{
			"kind":        KindStudio,
			"artistCount": strconv.Itoa(v.ArtistCount),
		}
	}
	return map[string]string{}
}

// Publish republishes the canonical dataset to source.
func (a *RelationshipAdapter) Publish(ctx context.Context, source, key string, item reconcile.Item) error {
	return a.republish(ctx, source)
}

// Delete republishes the canonical dataset to source, which drops key.
func (a *RelationshipAdapter) Delete(ctx context.Context, source, key string) error {
	return a.republish(ctx, source)
}

// PublishBatch republishes the canonical dataset once for all actions.
func (a *RelationshipAdapter) PublishBatch(ctx context.Context, source string, actions []reconcile.Action) error {
	return a.republish(ctx, source)
}

// DeleteBatch republishes the canonical dataset once for all keys.
func (a *RelationshipAdapter) DeleteBatch(ctx context.Context, source string, keys []string) error {
	return a.republish(ctx, source)
}

// republish saves the last loaded canonical dataset into source. A source is
// written at most once per canonical load.
func (a *RelationshipAdapter) republish(ctx context.Context, source string) error {
	if source == a.mirrors[0].Name() {
		return fmt.Errorf("refusing to write canonical source %s", source)
	}
	m, ok := a.byName[source]
	if !ok {
		return fmt.Errorf("unknown source %q", source)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.canonical == nil {
		return fmt.Errorf("canonical source %s not loaded", a.mirrors[0].Name())
	}
	if a.published[source] {
		return nil
	}
	if err := m.Save(ctx, *a.canonical); err != nil {
		return fmt.Errorf("failed to republish to %s: %w", source, err)
	}
	a.published[source] = true
	return nil
}

func refString(ref *models.StudioRef) string {
	if ref == nil {
		return "<none>"
	}
	return ref.StudioID
}
