package relationships

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"relationship-manager/core/searchindex"
	"relationship-manager/feature/relationships/integrity"
	"relationship-manager/feature/relationships/mirror"
	"relationship-manager/feature/relationships/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// unlinked is a London dataset with no relationships yet.
func unlinked() models.Dataset {
	return models.Dataset{
		Artists: []models.Artist{
			{ArtistID: "a1", DisplayName: "Ada Ink", Styles: []string{"realism"}, LocationDisplay: "Hackney, London", Rating: 4.5},
			{ArtistID: "a2", DisplayName: "Bo Lines", Styles: []string{"realism"}, LocationDisplay: "Hackney, London", Rating: 4.1},
			{ArtistID: "a3", DisplayName: "Cy Dots", Styles: []string{"realism"}, LocationDisplay: "Hackney, London", Rating: 3.9},
			{ArtistID: "a4", DisplayName: "Di Shade", Styles: []string{"realism"}, LocationDisplay: "Hackney, London", Rating: 4.8},
		},
		Studios: []models.Studio{
			{StudioID: "s1", StudioName: "Soho Ink", Address: "1 Dean St", LocationDisplay: "Soho, London", Postcode: "W1D 3RB"},
			{StudioID: "s2", StudioName: "Camden Ink", Address: "9 Parkway", LocationDisplay: "Camden, London", Postcode: "NW1 7PG"},
		},
	}
}

func testConfig() Config {
	return Config{
		MinArtistsPerStudio: 1,
		MaxArtistsPerStudio: 10,
		DonorThreshold:      2,
		Source:              mirror.SourceFile,
	}
}

type env struct {
	svc   *Service
	file  *mirror.FileMirror
	index *mirror.IndexMirror
	logs  *observer.ObservedLogs
}

// setup seeds the file mirror with ds and pairs it with a miniredis-backed index.
func setup(t *testing.T, ds models.Dataset) env {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := searchindex.NewClient(searchindex.Config{Addr: mr.Addr(), Prefix: "svc"})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	file := mirror.NewFileMirror(filepath.Join(t.TempDir(), "fixtures.json"))
	require.NoError(t, file.Save(context.Background(), ds))
	index := mirror.NewIndexMirror(client)

	core, logs := observer.New(zapcore.InfoLevel)
	svc, err := NewService(testConfig(), zap.New(core), file, index)
	require.NoError(t, err)
	return env{svc: svc, file: file, index: index, logs: logs}
}

type failingMirror struct{}

func (failingMirror) Name() string { return mirror.SourceDocuments }
func (failingMirror) Load(ctx context.Context) (models.Dataset, error) {
	return models.Dataset{}, errors.New("connection reset")
}
func (failingMirror) Save(ctx context.Context, ds models.Dataset) error {
	return errors.New("connection reset")
}

func TestNewService(t *testing.T) {
	t.Run("MissingRulesFile", func(t *testing.T) {
		cfg := testConfig()
		cfg.RulesFile = filepath.Join(t.TempDir(), "missing.toml")
		_, err := NewService(cfg, zap.NewNop(), mirror.NewFileMirror("unused.json"))
		assert.Error(t, err)
	})

	t.Run("RulesFileAndThresholdOverride", func(t *testing.T) {
		cfg := testConfig()
		cfg.RulesFile = filepath.Join(t.TempDir(), "rules.toml")
		require.NoError(t, os.WriteFile(cfg.RulesFile, []byte("rating_fallback_threshold = 4.0\n"), 0644))
		cfg.RatingFallbackThreshold = 4.9

		svc, err := NewService(cfg, zap.NewNop(), mirror.NewFileMirror("unused.json"))
		require.NoError(t, err)
		assert.Equal(t, 4.9, svc.Scorer().Rules().RatingFallbackThreshold)
	})
}

func TestService_Validate(t *testing.T) {
	e := setup(t, unlinked())

	report, err := e.svc.Validate(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, 4, report.Count(integrity.CodeOrphanedArtist))
	assert.Equal(t, 2, report.Count(integrity.CodeEmptyStudio))

	warnings := e.logs.FilterLevelExact(zapcore.WarnLevel).All()
	assert.Len(t, warnings, 6, "every warning is logged")
	assert.Equal(t, string(integrity.CodeOrphanedArtist), warnings[0].ContextMap()["code"])
}

func TestService_ValidateLoadError(t *testing.T) {
	svc, err := NewService(testConfig(), zap.NewNop(), failingMirror{})
	require.NoError(t, err)

	_, err = svc.Validate(context.Background())
	assert.ErrorContains(t, err, "failed to load documents")
}

func TestService_Rebuild(t *testing.T) {
	ctx := context.Background()
	e := setup(t, unlinked())

	t.Run("DryRun", func(t *testing.T) {
		result, err := e.svc.Rebuild(ctx, true)
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Empty(t, result.Persisted)
		assert.True(t, result.Validation.Valid)

		ds, err := e.file.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, ds.Studios[0].Artists, "source untouched")
	})

	t.Run("Persist", func(t *testing.T) {
		result, err := e.svc.Rebuild(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, []string{mirror.SourceFile, mirror.SourceIndex}, result.Persisted)
		assert.Empty(t, result.Assignment.Unassigned)
		assert.Zero(t, result.Validation.Summary.Warnings)

		fromFile, err := e.file.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a1", "a2"}, fromFile.Studios[0].Artists)
		assert.Equal(t, []string{"a3", "a4"}, fromFile.Studios[1].Artists)
		require.NotNil(t, fromFile.Artists[2].StudioRef)
		assert.Equal(t, "s2", fromFile.Artists[2].StudioRef.StudioID)

		fromIndex, err := e.index.Load(ctx)
		require.NoError(t, err)
		if diff := cmp.Diff(fromFile.Studios[0].Artists, fromIndex.Studios[0].Artists); diff != "" {
			t.Errorf("index differs from source (-want +got):\n%s", diff)
		}
	})
}

func TestService_Repair(t *testing.T) {
	ctx := context.Background()
	e := setup(t, unlinked())

	t.Run("DryRun", func(t *testing.T) {
		result, err := e.svc.Repair(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, 4, result.Report.OrphansAssigned)
		assert.Empty(t, result.Persisted)
	})

	t.Run("Persist", func(t *testing.T) {
		result, err := e.svc.Repair(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 4, result.Report.OrphansAssigned)
		assert.True(t, result.Report.Validation.Valid)
		assert.Equal(t, []string{mirror.SourceFile, mirror.SourceIndex}, result.Persisted)

		report, err := e.svc.Validate(ctx)
		require.NoError(t, err)
		assert.Zero(t, report.Count(integrity.CodeOrphanedArtist))
	})

	t.Run("NothingToDo", func(t *testing.T) {
		result, err := e.svc.Repair(ctx, false)
		require.NoError(t, err)
		assert.True(t, result.Report.IsEmpty())
		assert.Empty(t, result.Persisted, "clean datasets are not rewritten")
	})
}

func TestService_PersistFailure(t *testing.T) {
	ctx := context.Background()
	file := mirror.NewFileMirror(filepath.Join(t.TempDir(), "fixtures.json"))
	require.NoError(t, file.Save(ctx, unlinked()))

	svc, err := NewService(testConfig(), zap.NewNop(), file, failingMirror{})
	require.NoError(t, err)

	result, err := svc.Rebuild(ctx, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist to documents")
	assert.Equal(t, []string{mirror.SourceFile}, result.Persisted)
}

func TestService_Overview(t *testing.T) {
	ctx := context.Background()
	e := setup(t, unlinked())
	_, err := e.svc.Rebuild(ctx, false)
	require.NoError(t, err)

	overview, err := e.svc.Overview(ctx)
	require.NoError(t, err)
	assert.True(t, overview.Valid)
	require.Len(t, overview.Studios, 2)
	assert.Equal(t, StudioRow{
		StudioID: "s1", StudioName: "Soho Ink", Location: "Soho, London",
		Artists: 2, MinArtists: 1, MaxArtists: 10, Specialties: []string{"realism"},
	}, overview.Studios[0])
	assert.Equal(t, 4, overview.Validation.Assigned)
}

func TestService_Drift(t *testing.T) {
	ctx := context.Background()
	e := setup(t, unlinked())
	_, err := e.svc.Rebuild(ctx, false)
	require.NoError(t, err)

	plan, _, err := e.svc.Drift(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 6, plan.Summary.TotalItems)
	assert.Equal(t, 6, plan.Summary.InSync)

	// Index loses everything behind the service's back.
	require.NoError(t, e.index.Save(ctx, models.Dataset{}))

	plan, executed, err := e.svc.Drift(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, executed)
	assert.Equal(t, 6, plan.Summary.Missing[mirror.SourceIndex])

	plan, executed, err = e.svc.Drift(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 6, executed)
	assert.Equal(t, 6, plan.Summary.SyncActions)

	plan, _, err = e.svc.Drift(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 6, plan.Summary.InSync)
}

func TestService_DriftWithoutMirrors(t *testing.T) {
	svc, err := NewService(testConfig(), zap.NewNop(), mirror.NewFileMirror("unused.json"))
	require.NoError(t, err)

	_, _, err = svc.Drift(context.Background(), false)
	assert.ErrorContains(t, err, "no mirrors configured")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Defaults", func(c *Config) {}, false},
		{"WithMirrors", func(c *Config) { c.Mirrors = []string{mirror.SourceDocuments, mirror.SourceIndex} }, false},
		{"Unbounded", func(c *Config) { c.MaxArtistsPerStudio = 0; c.MinArtistsPerStudio = 50 }, false},
		{"NegativeBound", func(c *Config) { c.MinArtistsPerStudio = -1 }, true},
		{"MinAboveMax", func(c *Config) { c.MinArtistsPerStudio = 11 }, true},
		{"NegativeDonor", func(c *Config) { c.DonorThreshold = -1 }, true},
		{"UnknownSource", func(c *Config) { c.Source = "ftp" }, true},
		{"UnknownMirror", func(c *Config) { c.Mirrors = []string{"ftp"} }, true},
		{"MirrorIsSource", func(c *Config) { c.Mirrors = []string{mirror.SourceFile} }, true},
		{"MirrorTwice", func(c *Config) { c.Mirrors = []string{mirror.SourceIndex, mirror.SourceIndex} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
