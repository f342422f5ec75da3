package mirror

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"relationship-manager/core/storage"
	"relationship-manager/feature/relationships/models"

	"github.com/minio/minio-go/v7"
)

// DefaultFixtureObject is used when no object name is configured.
const DefaultFixtureObject = "fixtures/relationships.json"

// BucketMirror is the fixture JSON published to object storage.
type BucketMirror struct {
	client storage.Client
	bucket string
	object string
}

// NewBucketMirror creates a mirror over bucket/object.
func NewBucketMirror(client storage.Client, bucket, object string) *BucketMirror {
	if object == "" {
		object = DefaultFixtureObject
	}
	return &BucketMirror{client: client, bucket: bucket, object: object}
}

func (m *BucketMirror) Name() string { return SourceBucket }

// Object returns the object name.
func (m *BucketMirror) Object() string { return m.object }

func (m *BucketMirror) Load(ctx context.Context) (models.Dataset, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.object, minio.GetObjectOptions{})
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to get %s/%s: %w", m.bucket, m.object, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to read %s/%s: %w", m.bucket, m.object, err)
	}
	return decodeFixture(data)
}

func (m *BucketMirror) Save(ctx context.Context, ds models.Dataset) error {
	data, err := encodeFixture(ds)
	if err != nil {
		return err
	}
	_, err = m.client.PutObject(ctx, m.bucket, m.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", m.bucket, m.object, err)
	}
	return nil
}
