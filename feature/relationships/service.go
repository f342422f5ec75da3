package relationships

import (
	"context"
	"fmt"
	"sync"

	"relationship-manager/core/reconcile"
	"relationship-manager/feature/relationships/assign"
	"relationship-manager/feature/relationships/compat"
	"relationship-manager/feature/relationships/integrity"
	"relationship-manager/feature/relationships/linker"
	"relationship-manager/feature/relationships/mirror"
	"relationship-manager/feature/relationships/models"
	"relationship-manager/feature/relationships/repair"
	drift "relationship-manager/feature/relationships/reconcile"

	"go.uber.org/zap"
)

// RepairResult is the outcome of a repair run.
type RepairResult struct {
	Report repair.Report `json:"report"`
	// Persisted lists the mirrors written, source first. Empty on dry runs
	// and when nothing changed.
	Persisted []string `json:"persisted"`
	DryRun    bool     `json:"dryRun"`
}

// RebuildResult is the outcome of a rebuild run.
type RebuildResult struct {
	Assignment assign.Result    `json:"assignment"`
	Validation integrity.Report `json:"validation"`
	Persisted  []string         `json:"persisted"`
	DryRun     bool             `json:"dryRun"`
}

// StudioRow is one line of the studio overview.
type StudioRow struct {
	StudioID    string   `json:"studioId"`
	StudioName  string   `json:"studioName"`
	Location    string   `json:"location"`
	Artists     int      `json:"artists"`
	MinArtists  int      `json:"minArtists"`
	MaxArtists  int      `json:"maxArtists"`
	Specialties []string `json:"specialties"`
}

// Overview is the per-studio summary plus validation totals.
type Overview struct {
	Studios    []StudioRow       `json:"studios"`
	Valid      bool              `json:"valid"`
	Validation integrity.Summary `json:"validation"`
}

// Service loads the dataset from the source mirror, runs the engine and
// persists results to the source and every replica.
type Service struct {
	cfg     Config
	logger  *zap.Logger
	source  mirror.Mirror
	mirrors []mirror.Mirror

	scorer    *compat.Scorer
	validator *integrity.Validator
	assigner  *assign.Engine
	repairer  *repair.Engine
	drift     *reconcile.Spec

	// mu serializes operations that write to mirrors.
	mu sync.Mutex
}

// NewService creates a relationship service. The compatibility rules are read
// from cfg.RulesFile when set.
func NewService(cfg Config, logger *zap.Logger, source mirror.Mirror, replicas ...mirror.Mirror) (*Service, error) {
	rules, err := compat.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	if cfg.RatingFallbackThreshold > 0 {
		rules.RatingFallbackThreshold = cfg.RatingFallbackThreshold
		if err := rules.Validate(); err != nil {
			return nil, err
		}
	}

	scorer := compat.NewScorer(rules)
	s := &Service{
		cfg:     cfg,
		logger:  logger,
		source:  source,
		mirrors: replicas,
		scorer:  scorer,
		validator: integrity.NewValidator(integrity.Config{
			MinArtistsPerStudio: cfg.MinArtistsPerStudio,
			MaxArtistsPerStudio: cfg.MaxArtistsPerStudio,
		}),
		assigner: assign.NewEngine(scorer, assign.Config{
			MinArtistsPerStudio: cfg.MinArtistsPerStudio,
			MaxArtistsPerStudio: cfg.MaxArtistsPerStudio,
		}),
		repairer: repair.NewEngine(scorer, repair.Config{
			MinArtistsPerStudio: cfg.MinArtistsPerStudio,
			MaxArtistsPerStudio: cfg.MaxArtistsPerStudio,
			DonorThreshold:      cfg.DonorThreshold,
		}),
	}
	if len(replicas) > 0 {
		s.drift = &reconcile.Spec{
			Adapter:  drift.NewAdapter(source, replicas...),
			CacheTTL: cfg.DriftCacheTTL(),
		}
	}
	return s, nil
}

// OpenMirrors opens the configured source and replicas.
func OpenMirrors(ctx context.Context, cfg Config, deps mirror.Deps) (mirror.Mirror, []mirror.Mirror, error) {
	source, err := mirror.Open(ctx, cfg.Source, deps)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open source: %w", err)
	}
	replicas := make([]mirror.Mirror, 0, len(cfg.Mirrors))
	for _, name := range cfg.Mirrors {
		m, err := mirror.Open(ctx, name, deps)
		if err != nil {
			return nil, nil, err
		}
		replicas = append(replicas, m)
	}
	return source, replicas, nil
}

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// Scorer returns the compatibility scorer in use.
func (s *Service) Scorer() *compat.Scorer {
	return s.scorer
}

// Load reads the dataset from the source mirror.
func (s *Service) Load(ctx context.Context) (models.Dataset, error) {
	ds, err := s.source.Load(ctx)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to load %s: %w", s.source.Name(), err)
	}
	return ds, nil
}

// Validate checks the source dataset. Warnings are logged; the report is
// returned even when it holds errors.
func (s *Service) Validate(ctx context.Context) (integrity.Report, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return integrity.Report{}, err
	}
	report := s.validator.Validate(ds)
	s.logReport(report)
	return report, nil
}

// Repair runs one repair pass over the source dataset. Unless dryRun is set
// and when the pass changed something, the result is persisted everywhere.
func (s *Service) Repair(ctx context.Context, dryRun bool) (*RepairResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	repaired, report := s.repairer.Repair(ds)
	s.logger.Info("Repair pass finished",
		zap.Int("orphans_assigned", report.OrphansAssigned),
		zap.Int("empty_studios_populated", report.EmptyStudiosPopulated),
		zap.Int("duplicates_resolved", report.DuplicatesResolved),
		zap.Int("dangling_removed", report.DanglingReferencesRemoved),
		zap.Int("stale_fields_refreshed", report.StaleFieldsRefreshed),
	)
	s.logReport(report.Validation)

	result := &RepairResult{Report: report, Persisted: []string{}, DryRun: dryRun}
	if dryRun || report.IsEmpty() {
		return result, nil
	}
	if result.Persisted, err = s.persist(ctx, repaired); err != nil {
		return result, err
	}
	return result, nil
}

// Rebuild discards existing relationships, assigns every artist afresh,
// synchronizes references and validates. Unless dryRun is set the result is
// persisted everywhere.
func (s *Service) Rebuild(ctx context.Context, dryRun bool) (*RebuildResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	assigned, result := s.assigner.Assign(ds)
	synced := linker.Synchronize(assigned)
	report := s.validator.Validate(synced)

	s.logger.Info("Rebuild finished",
		zap.Int("artists", len(synced.Artists)),
		zap.Int("studios", len(synced.Studios)),
		zap.Int("fallback_assigned", result.FallbackAssigned),
		zap.Int("unassigned", len(result.Unassigned)),
		zap.Int("empty_studios", len(result.EmptyStudios)),
	)
	s.logReport(report)

	out := &RebuildResult{Assignment: result, Validation: report, Persisted: []string{}, DryRun: dryRun}
	if dryRun {
		return out, nil
	}
	if out.Persisted, err = s.persist(ctx, synced); err != nil {
		return out, err
	}
	return out, nil
}

// Overview summarizes every studio of the source dataset.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	report := s.validator.Validate(ds)

	rows := make([]StudioRow, 0, len(ds.Studios))
	for i := range ds.Studios {
		st := &ds.Studios[i]
		lo, hi := st.Capacity(s.cfg.MinArtistsPerStudio, s.cfg.MaxArtistsPerStudio)
		rows = append(rows, StudioRow{
			StudioID:    st.StudioID,
			StudioName:  st.StudioName,
			Location:    st.LocationDisplay,
			Artists:     len(st.Artists),
			MinArtists:  lo,
			MaxArtists:  hi,
			Specialties: st.Specialties,
		})
	}
	return &Overview{Studios: rows, Valid: report.Valid, Validation: report.Summary}, nil
}

// Drift compares the relationship fields of every replica with the source.
// With apply set, drifted replicas get the source dataset republished.
func (s *Service) Drift(ctx context.Context, apply bool) (*reconcile.ReconcilePlan, int, error) {
	if s.drift == nil {
		return nil, 0, fmt.Errorf("no mirrors configured besides the source %s", s.source.Name())
	}
	opts := reconcile.ReconcileOptions{
		DoSync:    true,
		DoPurge:   true,
		Confirmed: apply,
		DryRun:    !apply,
	}
	if !apply {
		plan, err := reconcile.ReconcileWithPlan(ctx, s.drift, opts)
		return plan, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Writes may have happened since the last lookup.
	reconcile.InvalidateCache(s.drift)
	plan, executed, err := reconcile.ReconcileAndApply(ctx, s.drift, opts)
	if err != nil {
		return plan, executed, err
	}
	s.logger.Info("Drift reconciled",
		zap.Int("entities", plan.Summary.TotalItems),
		zap.Int("in_sync", plan.Summary.InSync),
		zap.Int("actions", executed),
	)
	return plan, executed, nil
}

// persist writes ds to the source, then to every replica in order. It stops
// at the first failure.
func (s *Service) persist(ctx context.Context, ds models.Dataset) ([]string, error) {
	written := []string{}
	for _, m := range append([]mirror.Mirror{s.source}, s.mirrors...) {
		if err := m.Save(ctx, ds); err != nil {
			return written, fmt.Errorf("failed to persist to %s: %w", m.Name(), err)
		}
		written = append(written, m.Name())
	}
	if s.drift != nil {
		reconcile.InvalidateCache(s.drift)
	}
	s.logger.Info("Dataset persisted", zap.Strings("mirrors", written))
	return written, nil
}

func (s *Service) logReport(report integrity.Report) {
	for _, w := range report.Warnings {
		s.logger.Warn(w.Message,
			zap.String("code", string(w.Code)),
			zap.String("artist_id", w.ArtistID),
			zap.String("studio_id", w.StudioID),
		)
	}
	if !report.Valid {
		s.logger.Error("Dataset is inconsistent",
			zap.Int("errors", len(report.Errors)),
			zap.Int("warnings", len(report.Warnings)),
		)
	}
}
