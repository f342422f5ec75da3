package checks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"relationship-manager/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StructureReport describes the fixture bucket layout.
type StructureReport struct {
	Bucket       string   `json:"bucket"`
	BucketExists bool     `json:"bucket_exists"`
	Missing      []string `json:"missing"`
}

// IsHealthy reports whether the bucket and all folders exist.
func (r *StructureReport) IsHealthy() bool {
	return r.BucketExists && len(r.Missing) == 0
}

// FoldersFor returns the folders holding the given object keys, deduplicated
// in first-seen order. Objects at the bucket root need no folder.
func FoldersFor(objects ...string) []string {
	var folders []string
	seen := make(map[string]struct{})
	for _, obj := range objects {
		dir := path.Dir(strings.TrimPrefix(obj, "/"))
		if dir == "." || dir == "/" {
			continue
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		folders = append(folders, dir)
	}
	return folders
}

// CheckStructure checks that the bucket exists and lists the folders it lacks.
// A missing bucket is reported, not returned as an error, so it can be fixed.
func CheckStructure(ctx context.Context, client storage.Client, bucket string, folders []string) (*StructureReport, error) {
	report := &StructureReport{Bucket: bucket, Missing: []string{}}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		report.Missing = append(report.Missing, folders...)
		return report, nil
	}

	for _, folder := range folders {
		folderPath := folder
		if !strings.HasSuffix(folderPath, "/") {
			folderPath += "/"
		}

		opts := minio.ListObjectsOptions{
			Prefix:    folderPath,
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for obj := range client.ListObjects(ctx, bucket, opts) {
			found = obj.Err == nil
			break
		}

		if !found {
			report.Missing = append(report.Missing, folder)
		}
	}

	return report, nil
}

// FixStructure creates the bucket when absent, then the missing folders.
func FixStructure(ctx context.Context, client storage.Client, logger *zap.Logger, report *StructureReport) error {
	if !report.BucketExists {
		if err := client.MakeBucket(ctx, report.Bucket, minio.MakeBucketOptions{}); err != nil {
			logger.Error("Failed to create bucket", zap.String("bucket", report.Bucket), zap.Error(err))
			return fmt.Errorf("failed to create bucket %s: %w", report.Bucket, err)
		}
		logger.Info("Created missing bucket", zap.String("bucket", report.Bucket))
	}

	for _, folder := range report.Missing {
		folderPath := folder
		if !strings.HasSuffix(folderPath, "/") {
			folderPath += "/"
		}

		_, err := client.PutObject(ctx, report.Bucket, folderPath, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("folder", folder), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", folder))
	}
	return nil
}
