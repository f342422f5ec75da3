// Package storage wraps the MinIO client for the fixture bucket.
//
// Client narrows the MinIO API to what the relationship mirrors and the
// infrastructure checks use, so both can be tested against the testify mock
// in core/storage/mocks. It works with AWS S3 and self-hosted MinIO alike.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
