package checks

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"relationship-manager/core/storage"
	"relationship-manager/feature/relationships/mirror"

	"github.com/minio/minio-go/v7"
)

// FixtureReport describes one published fixture.
type FixtureReport struct {
	Source   string `json:"source"`
	Location string `json:"location"`
	Present  bool   `json:"present"`
	Size     int64  `json:"size"`
	Artists  int    `json:"artists"`
	Studios  int    `json:"studios"`
	Error    string `json:"error,omitempty"`
}

// IsHealthy reports whether the fixture exists and decodes.
func (r FixtureReport) IsHealthy() bool {
	return r.Present && r.Error == ""
}

// CheckBucketFixture stats and decodes the fixture object.
func CheckBucketFixture(ctx context.Context, client storage.Client, bucket, object string) FixtureReport {
	report := FixtureReport{Source: mirror.SourceBucket, Location: bucket + "/" + object}

	info, err := client.StatObject(ctx, bucket, object, minio.StatObjectOptions{})
	if err != nil {
		if !storage.IsNotFound(err) {
			report.Error = err.Error()
		}
		return report
	}
	report.Present = true
	report.Size = info.Size

	ds, err := mirror.NewBucketMirror(client, bucket, object).Load(ctx)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Artists, report.Studios = len(ds.Artists), len(ds.Studios)
	return report
}

// CheckFileFixture stats and decodes the local fixture file.
func CheckFileFixture(ctx context.Context, path string) FixtureReport {
	report := FixtureReport{Source: mirror.SourceFile, Location: path}

	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			report.Error = err.Error()
		}
		return report
	}
	report.Present = true
	report.Size = info.Size()

	ds, err := mirror.NewFileMirror(path).Load(ctx)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Artists, report.Studios = len(ds.Artists), len(ds.Studios)
	return report
}
