package linker

import (
	"testing"

	"relationship-manager/feature/relationships/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() models.Dataset {
	return models.Dataset{
		Artists: []models.Artist{
			{ArtistID: "a1", DisplayName: "Ada", Styles: []string{"realism"}, Rating: 4.2, LocationDisplay: "Soho, London"},
			{ArtistID: "a2", DisplayName: "Bo", Styles: []string{"fineline"}, Rating: 3.1, LocationDisplay: "Soho, London",
				StudioRef: &models.StudioRef{StudioID: "s9", StudioName: "Old"}},
			{ArtistID: "a3", DisplayName: "Cy", LocationDisplay: "Soho, London"},
		},
		Studios: []models.Studio{
			{
				StudioID: "s1", StudioName: "Ink One", Address: "1 Dean St", LocationDisplay: "Soho, London",
				Postcode: "W1D 3RB", Latitude: 51.51, Longitude: -0.13,
				Artists: []string{"a1", "ghost"}, ArtistCount: 9,
			},
			{StudioID: "s2", StudioName: "Ink Two", LocationDisplay: "Camden, London", Artists: []string{"a2", "a1"}},
		},
	}
}

func TestSynchronize(t *testing.T) {
	in := fixture()
	out := Synchronize(in)

	require.NotNil(t, out.Artists[0].StudioRef)
	assert.Equal(t, models.StudioRef{
		StudioID:   "s1",
		StudioName: "Ink One",
		Address:    models.Address{Street: "1 Dean St", City: "London", Postcode: "W1D 3RB", Latitude: 51.51, Longitude: -0.13},
	}, *out.Artists[0].StudioRef, "first owning studio wins")

	require.NotNil(t, out.Artists[1].StudioRef)
	assert.Equal(t, "s2", out.Artists[1].StudioRef.StudioID)
	assert.Equal(t, "Ink Two", out.Artists[1].StudioRef.StudioName)

	assert.Nil(t, out.Artists[2].StudioRef, "unlisted artist loses its ref")

	assert.Equal(t, 2, out.Studios[0].ArtistCount)
	assert.Equal(t, []models.ArtistDetail{
		{ArtistID: "a1", ArtistName: "Ada", Styles: []string{"realism"}, Rating: 4.2},
	}, out.Studios[0].ArtistDetails, "dangling ids get no detail")
	assert.Equal(t, []string{"a1", "ghost"}, out.Studios[0].Artists, "membership untouched")

	assert.Equal(t, 9, in.Studios[0].ArtistCount, "input untouched")
	assert.Equal(t, "s9", in.Artists[1].StudioRef.StudioID)
}

func TestSynchronize_Idempotent(t *testing.T) {
	once := Synchronize(fixture())
	twice := Synchronize(once)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("Synchronize not idempotent (-want +got):\n%s", diff)
	}
}

func TestSynchronize_EmptyStudio(t *testing.T) {
	out := Synchronize(models.Dataset{Studios: []models.Studio{{StudioID: "s1", ArtistCount: 3}}})

	assert.Equal(t, []string{}, out.Studios[0].Artists)
	assert.Zero(t, out.Studios[0].ArtistCount)
	assert.Empty(t, out.Studios[0].ArtistDetails)
}

func TestCity(t *testing.T) {
	assert.Equal(t, "London", City("Soho, London"))
	assert.Equal(t, "Bristol", City("Bristol"))
	assert.Equal(t, "Edinburgh", City("Leith, Edinburgh, UK"))
	assert.Equal(t, "", City(" , "))
}
