package mirror

import (
	"context"
	"testing"

	"relationship-manager/feature/relationships/models"

	"github.com/stretchr/testify/assert"
)

func sampleDataset() models.Dataset {
	return models.Dataset{
		Artists: []models.Artist{
			{
				ArtistID: "artist-001", DisplayName: "Ada Ink", Styles: []string{"realism", "portrait"},
				LocationDisplay: "Shoreditch, London", Rating: 4.7,
				StudioRef: &models.StudioRef{
					StudioID: "studio-001", StudioName: "Black Lantern",
					Address: models.Address{Street: "12 Curtain Rd", City: "London", Postcode: "EC2A 3NQ", Latitude: 51.524, Longitude: -0.079},
				},
			},
			{ArtistID: "artist-002", DisplayName: "Bo Lines", Styles: []string{"fineline"}, LocationDisplay: "Ancoats, Manchester", Rating: 3.9},
		},
		Studios: []models.Studio{
			{
				StudioID: "studio-001", StudioName: "Black Lantern", Address: "12 Curtain Rd",
				LocationDisplay: "Shoreditch, London", Postcode: "EC2A 3NQ", Latitude: 51.524, Longitude: -0.079,
				Specialties: []string{"realism", "portrait"}, Artists: []string{"artist-001"}, ArtistCount: 1,
				ArtistDetails: []models.ArtistDetail{
					{ArtistID: "artist-001", ArtistName: "Ada Ink", Styles: []string{"realism", "portrait"}, Rating: 4.7},
				},
				MaxArtistsPerStudio: 6,
			},
			{
				StudioID: "studio-002", StudioName: "North Needle", LocationDisplay: "Ancoats, Manchester",
				Specialties: []string{"fineline"}, Artists: []string{}, ArtistDetails: []models.ArtistDetail{},
			},
		},
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	m, err := Open(ctx, SourceFile, Deps{FixturePath: "fixtures.json"})
	assert.NoError(t, err)
	assert.Equal(t, SourceFile, m.Name())

	_, err = Open(ctx, SourceFile, Deps{})
	assert.ErrorContains(t, err, "fixture path")

	_, err = Open(ctx, SourceBucket, Deps{})
	assert.ErrorContains(t, err, "storage")

	_, err = Open(ctx, SourceDocuments, Deps{})
	assert.ErrorContains(t, err, "database")

	_, err = Open(ctx, SourceIndex, Deps{})
	assert.ErrorContains(t, err, "search index")

	_, err = Open(ctx, "ftp", Deps{})
	assert.ErrorContains(t, err, "unknown mirror")
}
