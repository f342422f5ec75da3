package reconcile

import (
	"context"
	"path/filepath"
	"testing"

	"relationship-manager/core/database"
	core "relationship-manager/core/reconcile"
	"relationship-manager/core/searchindex"
	"relationship-manager/feature/relationships/linker"
	"relationship-manager/feature/relationships/mirror"
	"relationship-manager/feature/relationships/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() models.Dataset {
	return linker.Synchronize(models.Dataset{
		Artists: []models.Artist{
			{ArtistID: "a1", DisplayName: "Ada Ink", Styles: []string{"realism"}, LocationDisplay: "Shoreditch, London", Rating: 4.7},
			{ArtistID: "a2", DisplayName: "Bo Lines", Styles: []string{"fineline"}, LocationDisplay: "Camden, London", Rating: 4.1},
			{ArtistID: "a3", DisplayName: "Cy Dots", Styles: []string{"dotwork"}, LocationDisplay: "Ancoats, Manchester", Rating: 3.8},
		},
		Studios: []models.Studio{
			{StudioID: "s1", StudioName: "Black Lantern", Address: "12 Curtain Rd", LocationDisplay: "Shoreditch, London",
				Specialties: []string{"realism", "fineline"}, Artists: []string{"a1", "a2"}},
			{StudioID: "s2", StudioName: "North Needle", Address: "4 Blossom St", LocationDisplay: "Ancoats, Manchester",
				Specialties: []string{"dotwork"}, Artists: []string{"a3"}},
		},
	})
}

type mirrors struct {
	file  *mirror.FileMirror
	docs  *mirror.DocumentMirror
	index *mirror.IndexMirror
}

func setupMirrors(t *testing.T) mirrors {
	t.Helper()
	ctx := context.Background()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	docs := mirror.NewDocumentMirror(db)
	require.NoError(t, docs.EnsureSchema(ctx))

	mr := miniredis.RunT(t)
	client, err := searchindex.NewClient(searchindex.Config{Addr: mr.Addr(), Prefix: "drift"})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return mirrors{
		file:  mirror.NewFileMirror(filepath.Join(t.TempDir(), "fixtures.json")),
		docs:  docs,
		index: mirror.NewIndexMirror(client),
	}
}

func TestRelationshipAdapter_Sources(t *testing.T) {
	m := setupMirrors(t)
	adapter := NewAdapter(m.file, m.docs, m.index)

	assert.Equal(t, "relationships", adapter.Name())
	assert.Equal(t, []string{mirror.SourceFile, mirror.SourceDocuments, mirror.SourceIndex}, adapter.Sources())
}

func TestRelationshipAdapter_LoadIndex(t *testing.T) {
	ctx := context.Background()
	m := setupMirrors(t)

	ds := fixture()
	dup := ds.Artists[0]
	dup.DisplayName = "Shadow Copy"
	ds.Artists = append(ds.Artists, dup)
	require.NoError(t, m.file.Save(ctx, ds))

	adapter := NewAdapter(m.file, m.docs)
	index, err := adapter.LoadIndex(ctx, mirror.SourceFile)
	require.NoError(t, err)

	assert.Len(t, index, 5)
	assert.Contains(t, index, "artist:a1")
	assert.Contains(t, index, "studio:s2")
	assert.Equal(t, "Ada Ink", adapter.ResolveName("artist:a1", index["artist:a1"]), "first record wins")
	assert.Equal(t, map[string]string{"kind": "artist", "studio": "s1"}, adapter.GetMetadata("artist:a1", index["artist:a1"]))
	assert.Equal(t, map[string]string{"kind": "studio", "artistCount": "1"}, adapter.GetMetadata("studio:s2", index["studio:s2"]))

	_, err = adapter.LoadIndex(ctx, "nowhere")
	assert.Error(t, err)
}

func TestRelationshipAdapter_CompareFields(t *testing.T) {
	adapter := NewAdapter(mirror.NewFileMirror("unused.json"))
	base := fixture()

	t.Run("Equal", func(t *testing.T) {
		assert.Empty(t, adapter.CompareFields(base.Artists[0], fixture().Artists[0]))
		assert.Empty(t, adapter.CompareFields(base.Studios[0], fixture().Studios[0]))
	})

	t.Run("ProfileFieldsIgnored", func(t *testing.T) {
		other := fixture().Artists[0]
		other.Rating = 1
		other.Styles = []string{"tribal"}
		assert.Empty(t, adapter.CompareFields(base.Artists[0], other))
	})

	t.Run("StudioRefMoved", func(t *testing.T) {
		other := fixture().Artists[0]
		other.StudioRef.StudioID = "s2"
		other.StudioRef.StudioName = "North Needle"
		got := adapter.CompareFields(base.Artists[0], other)
		assert.Equal(t, []string{
			"studioRef.studioId: s1 != s2",
			`studioRef.studioName: "Black Lantern" != "North Needle"`,
		}, got)
	})

	t.Run("StudioRefMissing", func(t *testing.T) {
		other := fixture().Artists[0]
		other.StudioRef = nil
		assert.Equal(t, []string{"studioRef: s1 != <none>"}, adapter.CompareFields(base.Artists[0], other))
	})

	t.Run("StudioAddress", func(t *testing.T) {
		other := fixture().Artists[0]
		other.StudioRef.Address.Postcode = "E1 6AA"
		assert.Equal(t, []string{"studioRef.address differs"}, adapter.CompareFields(base.Artists[0], other))
	})

	t.Run("StudioLists", func(t *testing.T) {
		other := fixture().Studios[0]
		other.Artists = []string{"a1"}
		other.ArtistCount = 1
		other.ArtistDetails = other.ArtistDetails[:1]
		other.Specialties = []string{"fineline", "realism"}
		got := adapter.CompareFields(base.Studios[0], other)
		assert.Equal(t, []string{
			"artists: [a1,a2] != [a1]",
			"artistCount: 2 != 1",
			"artistDetails differ",
		}, got, "specialty order is irrelevant")
	})

	t.Run("EmptyEqualsNil", func(t *testing.T) {
		a := models.Studio{StudioID: "s9", Artists: []string{}, ArtistDetails: []models.ArtistDetail{}}
		b := models.Studio{StudioID: "s9"}
		assert.Empty(t, adapter.CompareFields(a, b))
	})

	t.Run("KindMismatch", func(t *testing.T) {
		assert.Len(t, adapter.CompareFields(base.Artists[0], base.Studios[0]), 1)
	})
}

func TestDrift_RepublishesCanonical(t *testing.T) {
	ctx := context.Background()
	m := setupMirrors(t)

	canonical := fixture()
	require.NoError(t, m.file.Save(ctx, canonical))

	drifted := fixture()
	drifted.Studios[0].Artists = []string{"a1"}
	drifted.Studios[0].ArtistCount = 1
	drifted.Studios[1].Artists = []string{"a3", "a2"}
	drifted.Studios[1].ArtistCount = 2
	drifted.Artists = append(drifted.Artists, models.Artist{ArtistID: "a9", DisplayName: "Ghost"})
	require.NoError(t, m.docs.Save(ctx, drifted))

	spec := &core.Spec{Adapter: NewAdapter(m.file, m.docs, m.index)}
	opts := core.ReconcileOptions{DoSync: true, DoPurge: true}

	plan, err := core.ReconcileWithPlan(ctx, spec, opts)
	require.NoError(t, err)

	assert.Equal(t, 6, plan.Summary.TotalItems)
	assert.Equal(t, 5, plan.Summary.Missing[mirror.SourceIndex])
	assert.Equal(t, 1, plan.Summary.Extra[mirror.SourceDocuments])
	assert.Equal(t, 2, plan.Summary.Mismatches)
	assert.Equal(t, 1, plan.Summary.PurgeActions)
	assert.Equal(t, 7, plan.Summary.SyncActions)

	opts.Confirmed = true
	executed, err := core.ApplyPlan(ctx, spec, plan, opts)
	require.NoError(t, err)
	assert.Equal(t, 8, executed)

	results, err := core.ReconcileAll(ctx, spec)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.True(t, r.InSync(), "%s still drifted: %+v", r.ID, r)
	}

	got, err := m.index.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Artists, 3)
	assert.Len(t, got.Studios, 2)
}

func TestDrift_DryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	m := setupMirrors(t)
	require.NoError(t, m.file.Save(ctx, fixture()))

	spec := &core.Spec{Adapter: NewAdapter(m.file, m.index)}
	opts := core.ReconcileOptions{DoSync: true, Confirmed: true, DryRun: true}

	plan, executed, err := core.ReconcileAndApply(ctx, spec, opts)
	require.NoError(t, err)
	assert.Equal(t, 5, plan.Summary.SyncActions)
	assert.Zero(t, executed)

	got, err := m.index.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Artists)
}

func TestRelationshipAdapter_Republish(t *testing.T) {
	ctx := context.Background()
	m := setupMirrors(t)
	require.NoError(t, m.file.Save(ctx, fixture()))
	adapter := NewAdapter(m.file, m.index)

	t.Run("BeforeLoad", func(t *testing.T) {
		err := adapter.Publish(ctx, mirror.SourceIndex, "artist:a1", nil)
		assert.ErrorContains(t, err, "not loaded")
	})

	_, err := adapter.LoadIndex(ctx, mirror.SourceFile)
	require.NoError(t, err)

	t.Run("CanonicalRefused", func(t *testing.T) {
		err := adapter.Delete(ctx, mirror.SourceFile, "artist:a1")
		assert.ErrorContains(t, err, "refusing")
	})

	t.Run("UnknownSource", func(t *testing.T) {
		assert.Error(t, adapter.DeleteBatch(ctx, "nowhere", []string{"artist:a1"}))
	})

	t.Run("OncePerLoad", func(t *testing.T) {
		require.NoError(t, adapter.PublishBatch(ctx, mirror.SourceIndex, nil))

		// Clobber the index; a second publish in the same load is a no-op.
		require.NoError(t, m.index.Save(ctx, models.Dataset{}))
		require.NoError(t, adapter.Publish(ctx, mirror.SourceIndex, "artist:a1", nil))
		got, err := m.index.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got.Artists)

		_, err = adapter.LoadIndex(ctx, mirror.SourceFile)
		require.NoError(t, err)
		require.NoError(t, adapter.Publish(ctx, mirror.SourceIndex, "artist:a1", nil))
		got, err = m.index.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, got.Artists, 3)
	})
}
