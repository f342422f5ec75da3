package assign

import (
	"fmt"
	"testing"

	"relationship-manager/feature/relationships/compat"
	"relationship-manager/feature/relationships/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(cfg Config) *Engine {
	return NewEngine(compat.NewScorer(compat.DefaultRules()), cfg)
}

func artists(n int, prefix, location string, styles ...string) []models.Artist {
	out := make([]models.Artist, n)
	for i := range out {
		out[i] = models.Artist{
			ArtistID:        fmt.Sprintf("%s%d", prefix, i+1),
			DisplayName:     fmt.Sprintf("Artist %s%d", prefix, i+1),
			LocationDisplay: location,
			Styles:          styles,
		}
	}
	return out
}

// assignedOnce asserts every artist appears in exactly one studio list.
func assignedOnce(t *testing.T, ds models.Dataset) {
	t.Helper()
	owners := ds.Owners()
	for _, a := range ds.Artists {
		assert.Len(t, owners[a.ArtistID], 1, "artist %s", a.ArtistID)
	}
}

func TestAssign_EveryoneAssignedNoEmptyStudio(t *testing.T) {
	ds := models.Dataset{Artists: artists(10, "a", "Soho, London", "realism")}
	for i := 1; i <= 4; i++ {
		ds.Studios = append(ds.Studios, models.Studio{
			StudioID:            fmt.Sprintf("s%d", i),
			LocationDisplay:     "Camden, London",
			MaxArtistsPerStudio: 5,
		})
	}

	out, result := newEngine(DefaultConfig()).Assign(ds)

	assignedOnce(t, out)
	assert.Empty(t, result.Unassigned)
	assert.Empty(t, result.EmptyStudios)
	for _, s := range out.Studios {
		assert.NotEmpty(t, s.Artists, s.StudioID)
		assert.LessOrEqual(t, len(s.Artists), 5, s.StudioID)
	}
	require.Len(t, result.Loads, 4)
	assert.Equal(t, []StudioLoad{{"s1", 3}, {"s2", 3}, {"s3", 2}, {"s4", 2}}, result.Loads)
}

func TestAssign_TwoCities(t *testing.T) {
	ds := models.Dataset{
		Artists: append(artists(6, "lon", "Shoreditch, London"), artists(4, "man", "Ancoats, Manchester")...),
		Studios: []models.Studio{
			{StudioID: "s1", LocationDisplay: "Soho, London"},
			{StudioID: "s2", LocationDisplay: "Camden, London"},
			{StudioID: "s3", LocationDisplay: "Hackney, London"},
			{StudioID: "s4", LocationDisplay: "Northern Quarter, Manchester"},
		},
	}

	out, result := newEngine(DefaultConfig()).Assign(ds)

	assignedOnce(t, out)
	assert.Empty(t, result.Unassigned)
	assert.Empty(t, result.EmptyStudios)
	assert.NotEmpty(t, out.Studios[3].Artists, "manchester studio gets artists")
	for _, id := range out.Studios[0].Artists {
		assert.Contains(t, id, "lon", "same-city candidates are preferred")
	}
}

func TestAssign_ScarceArtistsLeaveEmptyStudios(t *testing.T) {
	ds := models.Dataset{
		Artists: artists(2, "a", "Soho, London"),
		Studios: []models.Studio{
			{StudioID: "s1", LocationDisplay: "Soho, London"},
			{StudioID: "s2", LocationDisplay: "Soho, London"},
			{StudioID: "s3", LocationDisplay: "Soho, London"},
		},
	}

	out, result := newEngine(DefaultConfig()).Assign(ds)

	assignedOnce(t, out)
	assert.Equal(t, []string{"s3"}, result.EmptyStudios)
	assert.Empty(t, out.Studios[2].Artists)
}

func TestAssign_FallbackPasses(t *testing.T) {
	t.Run("StyleRelaxed", func(t *testing.T) {
		ds := models.Dataset{
			Artists: []models.Artist{
				{ArtistID: "a1", LocationDisplay: "Soho, London", Styles: []string{"japanese"}},
			},
			Studios: []models.Studio{
				{StudioID: "s1", LocationDisplay: "Camden, London", Specialties: []string{"fineline"}},
			},
		}

		out, result := newEngine(DefaultConfig()).Assign(ds)

		assert.Equal(t, []string{"a1"}, out.Studios[0].Artists)
		assert.Equal(t, 1, result.FallbackAssigned)
		assert.Equal(t, []string{"japanese"}, out.Studios[0].Specialties, "specialties follow assigned styles")
	})

	t.Run("GeographyRelaxed", func(t *testing.T) {
		ds := models.Dataset{
			Artists: []models.Artist{{ArtistID: "a1", LocationDisplay: "Centre, Norwich"}},
			Studios: []models.Studio{
				{StudioID: "s2", LocationDisplay: "Centre, Cardiff"},
				{StudioID: "s1", LocationDisplay: "Centre, Cardiff"},
			},
		}

		out, result := newEngine(DefaultConfig()).Assign(ds)

		assert.Empty(t, out.Studios[0].Artists)
		assert.Equal(t, []string{"a1"}, out.Studios[1].Artists, "ties go to the lowest studio id")
		assert.Equal(t, 1, result.FallbackAssigned)
	})

	t.Run("CapacityExhausted", func(t *testing.T) {
		ds := models.Dataset{
			Artists: artists(3, "a", "Soho, London"),
			Studios: []models.Studio{{StudioID: "s1", LocationDisplay: "Soho, London", MaxArtistsPerStudio: 2}},
		}

		out, result := newEngine(DefaultConfig()).Assign(ds)

		assert.Len(t, out.Studios[0].Artists, 2)
		assert.Equal(t, []string{"a3"}, result.Unassigned)
	})
}

func TestAssign_ClearsExistingRelationshipsAndKeepsInput(t *testing.T) {
	ds := models.Dataset{
		Artists: []models.Artist{
			{ArtistID: "a1", LocationDisplay: "Soho, London", StudioRef: &models.StudioRef{StudioID: "gone"}},
		},
		Studios: []models.Studio{
			{StudioID: "s1", LocationDisplay: "Soho, London", Artists: []string{"ghost"}, ArtistCount: 7},
		},
	}

	out, _ := newEngine(DefaultConfig()).Assign(ds)

	assert.Nil(t, out.Artists[0].StudioRef)
	assert.Equal(t, []string{"a1"}, out.Studios[0].Artists)
	assert.Zero(t, out.Studios[0].ArtistCount)

	assert.Equal(t, []string{"ghost"}, ds.Studios[0].Artists, "input untouched")
	assert.Equal(t, "gone", ds.Artists[0].StudioRef.StudioID)
}

func TestAssign_FillPolicy(t *testing.T) {
	ds := models.Dataset{
		Artists: artists(4, "a", "Soho, London"),
		Studios: []models.Studio{
			{StudioID: "s1", LocationDisplay: "Soho, London"},
			{StudioID: "s2", LocationDisplay: "Soho, London"},
		},
	}
	cfg := DefaultConfig()
	cfg.Target = FillPolicy

	out, result := newEngine(cfg).Assign(ds)

	assert.Len(t, out.Studios[0].Artists, 4)
	assert.Equal(t, []string{"s2"}, result.EmptyStudios)
}

func TestDefaultTargetPolicy(t *testing.T) {
	tests := []struct {
		name                                        string
		unassigned, compatible, remaining, min, max int
		want                                        int
	}{
		{"EvenShare", 10, 10, 4, 1, 10, 3},
		{"ClampedToMax", 40, 40, 2, 1, 10, 10},
		{"RaisedToMin", 2, 5, 4, 2, 10, 2},
		{"CappedByCompatible", 10, 1, 2, 1, 10, 1},
		{"Unbounded", 40, 40, 2, 1, 0, 20},
		{"NothingCompatible", 10, 0, 2, 1, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultTargetPolicy(tt.unassigned, tt.compatible, tt.remaining, tt.min, tt.max))
		})
	}
}

func TestPickStudio(t *testing.T) {
	studios := []models.Studio{
		{StudioID: "s3", Artists: []string{"x"}},
		{StudioID: "s2", Artists: []string{"x", "y"}, MaxArtistsPerStudio: 2},
		{StudioID: "s1", Artists: []string{"x"}},
	}

	assert.Equal(t, 2, PickStudio(studios, 1, 10, nil))
	assert.Equal(t, 0, PickStudio(studios, 1, 10, func(s *models.Studio) bool { return s.StudioID != "s1" }))
	assert.Equal(t, -1, PickStudio(studios, 1, 1, nil), "all full")
}
