package mirror

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"relationship-manager/core/storage/mocks"

	"github.com/google/go-cmp/cmp"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBucketMirror_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	m := NewBucketMirror(client, "fixtures", "")
	assert.Equal(t, DefaultFixtureObject, m.Object())

	var stored []byte
	client.On("PutObject", ctx, "fixtures", DefaultFixtureObject, mock.Anything, mock.AnythingOfType("int64"),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "application/json" })).
		Run(func(args mock.Arguments) {
			stored, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{}, nil)

	want := sampleDataset()
	require.NoError(t, m.Save(ctx, want))
	require.NotEmpty(t, stored)

	client.On("GetObject", ctx, "fixtures", DefaultFixtureObject, mock.Anything).
		Return(io.NopCloser(bytes.NewReader(stored)), nil)

	got, err := m.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bucket round-trip mismatch (-want +got):\n%s", diff)
	}
	client.AssertExpectations(t)
}

func TestBucketMirror_Errors(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	m := NewBucketMirror(client, "fixtures", "custom.json")

	client.On("GetObject", ctx, "fixtures", "custom.json", mock.Anything).Return(nil, errors.New("no such key"))
	_, err := m.Load(ctx)
	assert.ErrorContains(t, err, "failed to get fixtures/custom.json")

	client.On("PutObject", ctx, "fixtures", "custom.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))
	err = m.Save(ctx, sampleDataset())
	assert.ErrorContains(t, err, "access denied")
}
