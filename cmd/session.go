package cmd

import (
	"context"
	"fmt"
	"slices"

	"relationship-manager/core/config"
	"relationship-manager/core/database"
	"relationship-manager/core/logger"
	"relationship-manager/core/searchindex"
	"relationship-manager/core/storage"
	"relationship-manager/feature/relationships"
	"relationship-manager/feature/relationships/mirror"

	"go.uber.org/zap"
)

// session bundles what every command needs after startup.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	deps   mirror.Deps
}

// close releases the connections opened by newSession.
func (s *session) close() {
	if s.deps.Search != nil {
		_ = s.deps.Search.Close()
	}
	if s.deps.DB != nil {
		if sqlDB, err := s.deps.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = s.logger.Sync()
}

// newSession loads the configuration and opens connections. Connections the
// configured mirrors need are required; the others are opened when optional
// is set and only logged when they fail.
func newSession(optional bool) (*session, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	s := &session{cfg: cfg, logger: logg}
	s.deps = mirror.Deps{
		FixturePath:   cfg.Relationships.FixturePath,
		Bucket:        cfg.Storage.Bucket,
		FixtureObject: cfg.Relationships.FixtureObject,
	}

	used := append([]string{cfg.Relationships.Source}, cfg.Relationships.Mirrors...)
	needs := func(name string) bool { return slices.Contains(used, name) }

	if needs(mirror.SourceBucket) || optional {
		client, err := storage.NewClient(cfg.Storage)
		switch {
		case err == nil:
			s.deps.Storage = client
		case needs(mirror.SourceBucket):
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		default:
			logg.Warn("Optional storage client failed", zap.Error(err))
		}
	}

	if needs(mirror.SourceDocuments) || optional {
		db, err := database.Connect(cfg.Database)
		switch {
		case err == nil:
			s.deps.DB = db
			logg.Debug("Connected to document store", zap.String("driver", cfg.Database.Driver))
		case needs(mirror.SourceDocuments):
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		default:
			logg.Warn("Optional database connection failed", zap.Error(err))
		}
	}

	if needs(mirror.SourceIndex) || optional {
		client, err := searchindex.NewClient(cfg.Search)
		switch {
		case err == nil:
			s.deps.Search = client
		case needs(mirror.SourceIndex):
			return nil, fmt.Errorf("failed to create search index client: %w", err)
		default:
			logg.Warn("Optional search index client failed", zap.Error(err))
		}
	}

	return s, nil
}

// service opens the configured mirrors and builds the relationship service.
func (s *session) service(ctx context.Context) (*relationships.Service, error) {
	source, replicas, err := relationships.OpenMirrors(ctx, s.cfg.Relationships, s.deps)
	if err != nil {
		return nil, err
	}
	return relationships.NewService(s.cfg.Relationships, s.logger, source, replicas...)
}
