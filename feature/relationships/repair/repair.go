package repair

import (
	"relationship-manager/feature/relationships/assign"
	"relationship-manager/feature/relationships/compat"
	"relationship-manager/feature/relationships/integrity"
	"relationship-manager/feature/relationships/linker"
	"relationship-manager/feature/relationships/models"
)

// Config holds the capacity defaults and the donor threshold.
type Config struct {
	MinArtistsPerStudio int
	MaxArtistsPerStudio int
	// DonorThreshold is the number of artists a studio must exceed before it
	// gives one up to an empty studio.
	DonorThreshold int
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{MinArtistsPerStudio: 1, MaxArtistsPerStudio: 10, DonorThreshold: 2}
}

// ChangeKind names a single repair action.
type ChangeKind string

const (
	ChangeRemoveDangling   ChangeKind = "remove_dangling"
	ChangeResolveDuplicate ChangeKind = "resolve_duplicate"
	ChangeRestoreReference ChangeKind = "restore_reference"
	ChangeAssignOrphan     ChangeKind = "assign_orphan"
	ChangePopulateEmpty    ChangeKind = "populate_empty"
)

// Change records one applied action. From and To are studio IDs; either may be
// empty.
type Change struct {
	Kind     ChangeKind `json:"kind"`
	ArtistID string     `json:"artistId"`
	From     string     `json:"from,omitempty"`
	To       string     `json:"to,omitempty"`
}

// Report describes what a repair pass did.
type Report struct {
	OrphansAssigned           int `json:"orphansAssigned"`
	EmptyStudiosPopulated     int `json:"emptyStudiosPopulated"`
	DuplicatesResolved        int `json:"duplicatesResolved"`
	DanglingReferencesRemoved int `json:"danglingReferencesRemoved"`
	StaleFieldsRefreshed      int `json:"staleFieldsRefreshed"`

	Changes []Change `json:"changes"`
	// Analysis is the classification of the input before any fix.
	Analysis Analysis `json:"analysis"`
	// Validation is the residual validation of the repaired dataset.
	Validation integrity.Report `json:"validation"`
}

// IsEmpty reports whether the pass changed nothing.
func (r Report) IsEmpty() bool {
	return len(r.Changes) == 0 && r.StaleFieldsRefreshed == 0
}

// Engine repairs datasets.
type Engine struct {
	scorer    *compat.Scorer
	validator *integrity.Validator
	cfg       Config
}

// NewEngine creates a repair engine.
func NewEngine(scorer *compat.Scorer, cfg Config) *Engine {
	return &Engine{
		scorer: scorer,
		validator: integrity.NewValidator(integrity.Config{
			MinArtistsPerStudio: cfg.MinArtistsPerStudio,
			MaxArtistsPerStudio: cfg.MaxArtistsPerStudio,
		}),
		cfg: cfg,
	}
}

// Repair runs one pass over ds and returns the repaired copy. ds is not
// modified.
func (e *Engine) Repair(ds models.Dataset) (models.Dataset, Report) {
	report := Report{Changes: []Change{}, Analysis: Analyze(ds)}
	before := e.validator.Validate(ds)

	w := &workspace{ds: ds.Clone(), report: &report, touched: map[int]struct{}{}}
	w.artistIdx = w.ds.ArtistIndex()

	e.removeDangling(w)
	e.resolveDuplicates(w)
	for {
		placed := e.placeOrphans(w)
		populated := e.populateEmpty(w)
		if placed == 0 && populated == 0 {
			break
		}
	}

	for si := range w.touched {
		s := &w.ds.Studios[si]
		if len(s.Artists) > 0 {
			s.Specialties = assign.DeriveSpecialties(s.Artists, w.ds.Artists, w.artistIdx)
		}
	}

	out := linker.Synchronize(w.ds)
	report.Validation = e.validator.Validate(out)
	report.StaleFieldsRefreshed = refreshed(before, report.Validation)
	return out, report
}

type workspace struct {
	ds        models.Dataset
	artistIdx map[string]int
	report    *Report
	touched   map[int]struct{}
}

func (w *workspace) record(c Change) {
	w.report.Changes = append(w.report.Changes, c)
}

func (w *workspace) owners(id string) []int {
	var out []int
	for si := range w.ds.Studios {
		if w.ds.Studios[si].HasArtist(id) {
			out = append(out, si)
		}
	}
	return out
}

func (w *workspace) attach(si int, id string) {
	w.ds.Studios[si].Artists = append(w.ds.Studios[si].Artists, id)
	w.touched[si] = struct{}{}
}

func (w *workspace) detach(si int, id string) {
	w.ds.Studios[si].RemoveArtist(id)
	w.touched[si] = struct{}{}
}

func (e *Engine) removeDangling(w *workspace) {
	for si := range w.ds.Studios {
		s := &w.ds.Studios[si]
		kept := s.Artists[:0:0]
		for _, id := range s.Artists {
			if _, ok := w.artistIdx[id]; ok {
				kept = append(kept, id)
				continue
			}
			w.report.DanglingReferencesRemoved++
			w.record(Change{Kind: ChangeRemoveDangling, ArtistID: id, From: s.StudioID})
		}
		if len(kept) != len(s.Artists) {
			s.Artists = kept
			w.touched[si] = struct{}{}
		}
	}
}

func (e *Engine) resolveDuplicates(w *workspace) {
	seen := make(map[string]struct{}, len(w.ds.Artists))
	for _, a := range w.ds.Artists {
		if _, dup := seen[a.ArtistID]; dup {
			continue
		}
		seen[a.ArtistID] = struct{}{}

		occurrences := 0
		for _, s := range w.ds.Studios {
			for _, id := range s.Artists {
				if id == a.ArtistID {
					occurrences++
				}
			}
		}
		if occurrences < 2 {
			continue
		}

		owners := w.owners(a.ArtistID)
		keeper := e.keeper(a, w.ds.Studios, owners)
		for _, si := range owners {
			w.detach(si, a.ArtistID)
			if si != keeper {
				w.record(Change{
					Kind:     ChangeResolveDuplicate,
					ArtistID: a.ArtistID,
					From:     w.ds.Studios[si].StudioID,
					To:       w.ds.Studios[keeper].StudioID,
				})
			}
		}
		w.attach(keeper, a.ArtistID)
		if len(owners) == 1 {
			w.record(Change{Kind: ChangeResolveDuplicate, ArtistID: a.ArtistID, From: w.ds.Studios[keeper].StudioID, To: w.ds.Studios[keeper].StudioID})
		}
		w.report.DuplicatesResolved++
	}
}

// keeper picks which owning studio retains a duplicated artist.
func (e *Engine) keeper(a models.Artist, studios []models.Studio, owners []int) int {
	if a.StudioRef != nil {
		for _, si := range owners {
			if studios[si].StudioID == a.StudioRef.StudioID {
				return si
			}
		}
	}
	best, bestScore := -1, 0.0
	for _, si := range owners {
		score := e.scorer.Score(a, studios[si]).Score
		switch {
		case best < 0, score > bestScore:
			best, bestScore = si, score
		case score == bestScore && studios[si].StudioID < studios[best].StudioID:
			best = si
		}
	}
	return best
}

func (e *Engine) placeOrphans(w *workspace) int {
	owned := make(map[string]struct{})
	for _, s := range w.ds.Studios {
		for _, id := range s.Artists {
			owned[id] = struct{}{}
		}
	}
	studioIdx := w.ds.StudioIndex()

	placed := 0
	seen := make(map[string]struct{}, len(w.ds.Artists))
	for _, a := range w.ds.Artists {
		if _, dup := seen[a.ArtistID]; dup {
			continue
		}
		seen[a.ArtistID] = struct{}{}
		if _, ok := owned[a.ArtistID]; ok {
			continue
		}

		kind := ChangeAssignOrphan
		si := -1
		if a.StudioRef != nil {
			if ri, ok := studioIdx[a.StudioRef.StudioID]; ok && e.hasRoom(&w.ds.Studios[ri]) {
				si, kind = ri, ChangeRestoreReference
			}
		}
		if si < 0 {
			si = assign.PickStudio(w.ds.Studios, e.cfg.MinArtistsPerStudio, e.cfg.MaxArtistsPerStudio, func(s *models.Studio) bool {
				return e.scorer.Score(a, *s).Compatible
			})
		}
		if si < 0 {
			si = assign.PickStudio(w.ds.Studios, e.cfg.MinArtistsPerStudio, e.cfg.MaxArtistsPerStudio, func(s *models.Studio) bool {
				return e.scorer.Geographic(a, *s).Compatible
			})
		}
		if si < 0 {
			continue
		}

		w.attach(si, a.ArtistID)
		w.record(Change{Kind: kind, ArtistID: a.ArtistID, To: w.ds.Studios[si].StudioID})
		w.report.OrphansAssigned++
		placed++
	}
	return placed
}

func (e *Engine) hasRoom(s *models.Studio) bool {
	_, hi := s.Capacity(e.cfg.MinArtistsPerStudio, e.cfg.MaxArtistsPerStudio)
	return hi <= 0 || len(s.Artists) < hi
}

func (e *Engine) populateEmpty(w *workspace) int {
	populated := 0
	for ti := range w.ds.Studios {
		target := &w.ds.Studios[ti]
		if len(target.Artists) > 0 || !e.hasRoom(target) {
			continue
		}

		donor, artistID := e.pickDonation(w, *target, func(a models.Artist) (bool, float64) {
			v := e.scorer.Score(a, *target)
			return v.Compatible, v.Score
		})
		if donor < 0 {
			donor, artistID = e.pickDonation(w, *target, func(a models.Artist) (bool, float64) {
				g := e.scorer.Geographic(a, *target)
				return g.Compatible, g.Score
			})
		}
		if donor < 0 {
			continue
		}

		w.detach(donor, artistID)
		w.attach(ti, artistID)
		w.record(Change{
			Kind:     ChangePopulateEmpty,
			ArtistID: artistID,
			From:     w.ds.Studios[donor].StudioID,
			To:       target.StudioID,
		})
		w.report.EmptyStudiosPopulated++
		populated++
	}
	return populated
}

// pickDonation returns the donor studio index and artist ID with the highest
// score under eval. Donors are scanned in collection order and artists in list
// order; only strictly better scores replace the current pick.
func (e *Engine) pickDonation(w *workspace, target models.Studio, eval func(models.Artist) (bool, float64)) (int, string) {
	donor, pick, best := -1, "", 0.0
	for si := range w.ds.Studios {
		s := &w.ds.Studios[si]
		if s.StudioID == target.StudioID || len(s.Artists) <= e.cfg.DonorThreshold {
			continue
		}
		for _, id := range s.Artists {
			ai, ok := w.artistIdx[id]
			if !ok {
				continue
			}
			compatible, score := eval(w.ds.Artists[ai])
			if !compatible {
				continue
			}
			if donor < 0 || score > best {
				donor, pick, best = si, id, score
			}
		}
	}
	return donor, pick
}

type issueKey struct {
	code     integrity.Code
	artistID string
	studioID string
}

// refreshed counts stale-cache warnings present before and gone after.
func refreshed(before, after integrity.Report) int {
	stale := map[integrity.Code]bool{
		integrity.CodeCountMismatch:         true,
		integrity.CodeOutdatedStudioName:    true,
		integrity.CodeOutdatedStudioAddress: true,
		integrity.CodeOutdatedArtistDetails: true,
	}
	remaining := make(map[issueKey]struct{})
	for _, w := range after.Warnings {
		if stale[w.Code] {
			remaining[issueKey{w.Code, w.ArtistID, w.StudioID}] = struct{}{}
		}
	}
	n := 0
	for _, w := range before.Warnings {
		if !stale[w.Code] {
			continue
		}
		if _, ok := remaining[issueKey{w.Code, w.ArtistID, w.StudioID}]; !ok {
			n++
		}
	}
	return n
}
