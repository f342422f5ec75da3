package checks

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"relationship-manager/core/storage/mocks"
	"relationship-manager/feature/relationships/mirror"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `{
  "artists": [
    {"artistId": "a1", "displayName": "Ana", "locationDisplay": "Soho, London"},
    {"artistId": "a2", "displayName": "Ben", "locationDisplay": "Camden, London"}
  ],
  "studios": [
    {"studioId": "s1", "studioName": "Soho Ink", "artists": ["a1", "a2"]}
  ]
}`

func TestCheckFileFixture(t *testing.T) {
	ctx := context.Background()

	t.Run("Present", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fixtures.json")
		require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0644))

		report := CheckFileFixture(ctx, path)
		assert.True(t, report.IsHealthy())
		assert.Equal(t, mirror.SourceFile, report.Source)
		assert.Equal(t, int64(len(fixtureJSON)), report.Size)
		assert.Equal(t, 2, report.Artists)
		assert.Equal(t, 1, report.Studios)
	})

	t.Run("Missing", func(t *testing.T) {
		report := CheckFileFixture(ctx, filepath.Join(t.TempDir(), "nope.json"))
		assert.False(t, report.Present)
		assert.Empty(t, report.Error)
		assert.False(t, report.IsHealthy())
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fixtures.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

		report := CheckFileFixture(ctx, path)
		assert.True(t, report.Present)
		assert.NotEmpty(t, report.Error)
	})
}

func TestCheckBucketFixture(t *testing.T) {
	ctx := context.Background()
	object := "fixtures/relationships.json"

	t.Run("Present", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("StatObject", mock.Anything, "studios", object, mock.Anything).
			Return(minio.ObjectInfo{Key: object, Size: int64(len(fixtureJSON))}, nil)
		mockClient.On("GetObject", mock.Anything, "studios", object, mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte(fixtureJSON))), nil)

		report := CheckBucketFixture(ctx, mockClient, "studios", object)
		assert.True(t, report.IsHealthy())
		assert.Equal(t, "studios/"+object, report.Location)
		assert.Equal(t, 2, report.Artists)
		assert.Equal(t, 1, report.Studios)
	})

	t.Run("Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("StatObject", mock.Anything, "studios", object, mock.Anything).
			Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

		report := CheckBucketFixture(ctx, mockClient, "studios", object)
		assert.False(t, report.Present)
		assert.Empty(t, report.Error)
		mockClient.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StatFails", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("StatObject", mock.Anything, "studios", object, mock.Anything).
			Return(minio.ObjectInfo{}, assert.AnError)

		report := CheckBucketFixture(ctx, mockClient, "studios", object)
		assert.False(t, report.Present)
		assert.Equal(t, assert.AnError.Error(), report.Error)
	})
}
