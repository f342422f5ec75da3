package assign

import (
	"relationship-manager/feature/relationships/compat"
	"relationship-manager/feature/relationships/models"
)

// Config holds the capacity bounds and target policy used by the engine.
type Config struct {
	// MinArtistsPerStudio is the default lower bound for studios without their own.
	MinArtistsPerStudio int
	// MaxArtistsPerStudio is the default upper bound; zero means unbounded.
	MaxArtistsPerStudio int
	// Target picks how many artists a studio takes in the main pass.
	Target TargetPolicy
}

// DefaultConfig returns the bounds used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MinArtistsPerStudio: 1,
		MaxArtistsPerStudio: 10,
		Target:              DefaultTargetPolicy,
	}
}

// StudioLoad is the number of artists a studio ended up with.
type StudioLoad struct {
	StudioID string `json:"studioId"`
	Count    int    `json:"count"`
}

// Result describes how an assignment pass went.
type Result struct {
	// Loads lists every studio with its final artist count, in input order.
	Loads []StudioLoad `json:"loads"`
	// FallbackAssigned counts artists placed after the main pass.
	FallbackAssigned int `json:"fallbackAssigned"`
	// Unassigned lists artists that fit nowhere (all studios at capacity).
	Unassigned []string `json:"unassigned"`
	// EmptyStudios lists studios that received nobody. Expected when artists are scarce.
	EmptyStudios []string `json:"emptyStudios"`
}

// Engine partitions artists across studios.
type Engine struct {
	scorer *compat.Scorer
	cfg    Config
}

// NewEngine creates an assignment engine. A nil Target falls back to DefaultTargetPolicy.
func NewEngine(scorer *compat.Scorer, cfg Config) *Engine {
	if cfg.Target == nil {
		cfg.Target = DefaultTargetPolicy
	}
	return &Engine{scorer: scorer, cfg: cfg}
}

// Assign builds a fresh partition of ds.Artists across ds.Studios.
// Existing relationship fields are discarded. The input is not modified.
// Denormalized fields (StudioRef, ArtistDetails, ArtistCount) are left for the
// synchronizer.
func (e *Engine) Assign(ds models.Dataset) (models.Dataset, Result) {
	out := ds.Clone()
	resetRelationships(&out)

	// Pool holds artist positions in input order; duplicate IDs are ignored.
	var pool []int
	seen := make(map[string]struct{}, len(out.Artists))
	for i, a := range out.Artists {
		if _, dup := seen[a.ArtistID]; dup {
			continue
		}
		seen[a.ArtistID] = struct{}{}
		pool = append(pool, i)
	}

	// Main pass: studios in input order take their share of compatible artists.
	for si := range out.Studios {
		studio := &out.Studios[si]

		candidates := make([]models.Artist, len(pool))
		for i, ai := range pool {
			candidates[i] = out.Artists[ai]
		}
		compatible := e.scorer.FindCompatibleArtists(*studio, candidates)

		lo, hi := studio.Capacity(e.cfg.MinArtistsPerStudio, e.cfg.MaxArtistsPerStudio)
		target := e.cfg.Target(len(pool), len(compatible), len(out.Studios)-si, lo, hi)
		if target > len(compatible) {
			target = len(compatible)
		}
		if target <= 0 {
			continue
		}

		taken := make(map[int]struct{}, target)
		for _, c := range compatible[:target] {
			studio.Artists = append(studio.Artists, c.Artist.ArtistID)
			taken[c.Index] = struct{}{}
		}
		remaining := pool[:0:0]
		for i, ai := range pool {
			if _, ok := taken[i]; !ok {
				remaining = append(remaining, ai)
			}
		}
		pool = remaining
	}

	var result Result

	// Fallback: relax style, keep geography, prefer the least-loaded studio.
	// Last resort: relax geography too, still respecting capacity.
	var leftover []int
	for _, ai := range pool {
		artist := out.Artists[ai]
		si := PickStudio(out.Studios, e.cfg.MinArtistsPerStudio, e.cfg.MaxArtistsPerStudio, func(s *models.Studio) bool {
			return e.scorer.Geographic(artist, *s).Compatible
		})
		if si < 0 {
			si = PickStudio(out.Studios, e.cfg.MinArtistsPerStudio, e.cfg.MaxArtistsPerStudio, nil)
		}
		if si < 0 {
			leftover = append(leftover, ai)
			continue
		}
		out.Studios[si].Artists = append(out.Studios[si].Artists, artist.ArtistID)
		result.FallbackAssigned++
	}

	byID := out.ArtistIndex()
	for si := range out.Studios {
		studio := &out.Studios[si]
		if len(studio.Artists) > 0 {
			studio.Specialties = DeriveSpecialties(studio.Artists, out.Artists, byID)
		} else {
			result.EmptyStudios = append(result.EmptyStudios, studio.StudioID)
		}
		result.Loads = append(result.Loads, StudioLoad{StudioID: studio.StudioID, Count: len(studio.Artists)})
	}
	for _, ai := range leftover {
		result.Unassigned = append(result.Unassigned, out.Artists[ai].ArtistID)
	}

	return out, result
}

// PickStudio returns the index of the least-loaded studio that is under capacity
// and accepted by eligible (nil accepts all). Ties go to the lowest StudioID.
// It returns -1 when no studio qualifies.
func PickStudio(studios []models.Studio, defaultMin, defaultMax int, eligible func(*models.Studio) bool) int {
	best := -1
	for i := range studios {
		s := &studios[i]
		_, hi := s.Capacity(defaultMin, defaultMax)
		if hi > 0 && len(s.Artists) >= hi {
			continue
		}
		if eligible != nil && !eligible(s) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := &studios[best]
		if len(s.Artists) < len(b.Artists) ||
			(len(s.Artists) == len(b.Artists) && s.StudioID < b.StudioID) {
			best = i
		}
	}
	return best
}

// DeriveSpecialties returns the union of the listed artists' styles in
// first-seen order. byID maps artist IDs to positions in artists.
func DeriveSpecialties(ids []string, artists []models.Artist, byID map[string]int) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, id := range ids {
		ai, ok := byID[id]
		if !ok {
			continue
		}
		for _, style := range artists[ai].Styles {
			if _, dup := seen[style]; dup {
				continue
			}
			seen[style] = struct{}{}
			out = append(out, style)
		}
	}
	return out
}

func resetRelationships(ds *models.Dataset) {
	for i := range ds.Artists {
		ds.Artists[i].StudioRef = nil
	}
	for i := range ds.Studios {
		s := &ds.Studios[i]
		s.Artists = []string{}
		s.ArtistCount = 0
		s.ArtistDetails = nil
	}
}
