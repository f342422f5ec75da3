package integrity

import (
	"context"
	"errors"
	"fmt"

	"relationship-manager/feature/integrity/checks"
	"relationship-manager/feature/relationships/mirror"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned when a check needs a connection that is absent.
var ErrNotConfigured = errors.New("not configured")

// Service handles integrity checks of the mirror infrastructure.
type Service struct {
	deps   mirror.Deps
	logger *zap.Logger
}

// NewService creates a new integrity service over the mirror connections.
func NewService(deps mirror.Deps, logger *zap.Logger) *Service {
	if deps.FixtureObject == "" {
		deps.FixtureObject = mirror.DefaultFixtureObject
	}
	return &Service{
		deps:   deps,
		logger: logger,
	}
}

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// CheckStructure reports whether the bucket and fixture folders exist.
func (s *Service) CheckStructure(ctx context.Context) (*checks.StructureReport, error) {
	if s.deps.Storage == nil || s.deps.Bucket == "" {
		return nil, fmt.Errorf("storage %w", ErrNotConfigured)
	}
	return checks.CheckStructure(ctx, s.deps.Storage, s.deps.Bucket, checks.FoldersFor(s.deps.FixtureObject))
}

// FixStructure creates whatever the report lists as missing.
func (s *Service) FixStructure(ctx context.Context, report *checks.StructureReport) error {
	if s.deps.Storage == nil {
		return fmt.Errorf("storage %w", ErrNotConfigured)
	}
	return checks.FixStructure(ctx, s.deps.Storage, s.logger, report)
}

// CheckFixtures inspects the file and bucket fixtures that are configured.
func (s *Service) CheckFixtures(ctx context.Context) []checks.FixtureReport {
	reports := []checks.FixtureReport{}
	if s.deps.FixturePath != "" {
		reports = append(reports, checks.CheckFileFixture(ctx, s.deps.FixturePath))
	}
	if s.deps.Storage != nil && s.deps.Bucket != "" {
		reports = append(reports, checks.CheckBucketFixture(ctx, s.deps.Storage, s.deps.Bucket, s.deps.FixtureObject))
	}
	return reports
}

// CheckSchema compares the document store tables with the mirror records.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.deps.DB == nil {
		return nil, fmt.Errorf("database %w", ErrNotConfigured)
	}
	return checks.CheckSchema(s.deps.DB)
}

// CheckIndex reports search index reachability and entity counts.
func (s *Service) CheckIndex(ctx context.Context) (*checks.IndexReport, error) {
	if s.deps.Search == nil {
		return nil, fmt.Errorf("search index %w", ErrNotConfigured)
	}
	return checks.CheckIndex(ctx, s.deps.Search)
}
