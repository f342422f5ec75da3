package integrity

import (
	"fmt"

	"relationship-manager/feature/relationships/linker"
	"relationship-manager/feature/relationships/models"
)

// Config holds the capacity defaults used for CAPACITY_EXCEEDED.
type Config struct {
	MinArtistsPerStudio int
	// MaxArtistsPerStudio of zero disables the capacity check for studios
	// without their own bound.
	MaxArtistsPerStudio int
}

// Validator checks datasets against the relationship invariants.
type Validator struct {
	cfg Config
}

// NewValidator creates a validator with the given capacity defaults.
func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate checks ds with default capacity bounds.
func Validate(ds models.Dataset) Report {
	return NewValidator(Config{MinArtistsPerStudio: 1, MaxArtistsPerStudio: 10}).Validate(ds)
}

// ValidateStrict is Validate returning a *ValidationError when errors exist.
func ValidateStrict(ds models.Dataset) (Report, error) {
	return NewValidator(Config{MinArtistsPerStudio: 1, MaxArtistsPerStudio: 10}).ValidateStrict(ds)
}

// ValidateStrict validates ds and returns a *ValidationError when the report
// holds at least one error.
func (v *Validator) ValidateStrict(ds models.Dataset) (Report, error) {
	report := v.Validate(ds)
	if report.Valid {
		return report, nil
	}
	return report, &ValidationError{Issues: report.Errors}
}

// Validate checks ds and returns every finding. ds is not modified.
func (v *Validator) Validate(ds models.Dataset) Report {
	r := &collector{report: Report{
		Errors:   []Issue{},
		Warnings: []Issue{},
		Summary: Summary{
			Artists: len(ds.Artists),
			Studios: len(ds.Studios),
			ByCode:  map[Code]int{},
		},
	}}

	studioIdx := ds.StudioIndex()
	artistIdx := ds.ArtistIndex()
	owners := ds.Owners()

	occurrences := make(map[string]int)
	for _, s := range ds.Studios {
		for _, id := range s.Artists {
			occurrences[id]++
		}
	}

	// Artists whose studio-side reverse check is covered by another issue.
	suppressed := make(map[string]struct{})

	seenArtist := make(map[string]struct{}, len(ds.Artists))
	for _, a := range ds.Artists {
		if _, dup := seenArtist[a.ArtistID]; dup {
			continue
		}
		seenArtist[a.ArtistID] = struct{}{}

		duplicated := occurrences[a.ArtistID] > 1
		if len(owners[a.ArtistID]) > 0 {
			r.report.Summary.Assigned++
		}

		if a.StudioRef != nil {
			si, ok := studioIdx[a.StudioRef.StudioID]
			if !ok {
				r.add(CodeInvalidStudioReference, SeverityError, a.ArtistID, a.StudioRef.StudioID,
					"artist %s references missing studio %s", a.ArtistID, a.StudioRef.StudioID)
				suppressed[a.ArtistID] = struct{}{}
			} else {
				s := ds.Studios[si]
				if !duplicated && !s.HasArtist(a.ArtistID) {
					r.add(CodeMissingReverseReference, SeverityError, a.ArtistID, s.StudioID,
						"artist %s references studio %s which does not list it", a.ArtistID, s.StudioID)
				}
				want := linker.RefFor(s)
				if a.StudioRef.StudioName != want.StudioName {
					r.add(CodeOutdatedStudioName, SeverityWarning, a.ArtistID, s.StudioID,
						"artist %s caches studio name %q, current is %q", a.ArtistID, a.StudioRef.StudioName, want.StudioName)
				}
				if a.StudioRef.Address != want.Address {
					r.add(CodeOutdatedStudioAddress, SeverityWarning, a.ArtistID, s.StudioID,
						"artist %s caches an outdated address for studio %s", a.ArtistID, s.StudioID)
				}
			}
		} else if len(owners[a.ArtistID]) == 0 {
			r.add(CodeOrphanedArtist, SeverityWarning, a.ArtistID, "",
				"artist %s is not assigned to any studio", a.ArtistID)
			r.report.Summary.Orphaned++
		}

		if duplicated {
			r.add(CodeDuplicateAssignment, SeverityError, a.ArtistID, "",
				"artist %s is listed %d times across %d studio(s)", a.ArtistID, occurrences[a.ArtistID], len(owners[a.ArtistID]))
			suppressed[a.ArtistID] = struct{}{}
		}
	}

	for _, s := range ds.Studios {
		if s.ArtistCount != len(s.Artists) {
			r.add(CodeCountMismatch, SeverityWarning, "", s.StudioID,
				"studio %s has artistCount %d but lists %d artist(s)", s.StudioID, s.ArtistCount, len(s.Artists))
		}
		if len(s.Artists) == 0 {
			r.add(CodeEmptyStudio, SeverityWarning, "", s.StudioID, "studio %s has no artists", s.StudioID)
			r.report.Summary.EmptyStudios++
		}
		if _, hi := s.Capacity(v.cfg.MinArtistsPerStudio, v.cfg.MaxArtistsPerStudio); hi > 0 && len(s.Artists) > hi {
			r.add(CodeCapacityExceeded, SeverityWarning, "", s.StudioID,
				"studio %s lists %d artist(s), capacity is %d", s.StudioID, len(s.Artists), hi)
		}

		listed := make(map[string]struct{}, len(s.Artists))
		for _, id := range s.Artists {
			if _, dup := listed[id]; dup {
				continue
			}
			listed[id] = struct{}{}

			ai, ok := artistIdx[id]
			if !ok {
				r.add(CodeInvalidArtistReference, SeverityError, id, s.StudioID,
					"studio %s lists missing artist %s", s.StudioID, id)
				continue
			}
			if _, skip := suppressed[id]; skip {
				continue
			}
			ref := ds.Artists[ai].StudioRef
			if ref == nil || ref.StudioID != s.StudioID {
				r.add(CodeMissingReverseReference, SeverityError, id, s.StudioID,
					"studio %s lists artist %s which does not reference it back", s.StudioID, id)
			}
		}

		v.checkDetails(r, ds, s, artistIdx)
	}

	r.report.Valid = len(r.report.Errors) == 0
	r.report.Summary.Errors = len(r.report.Errors)
	r.report.Summary.Warnings = len(r.report.Warnings)
	return r.report
}

// checkDetails emits one OUTDATED_ARTIST_DETAILS per artist whose cached detail
// is missing, stale or no longer listed.
func (v *Validator) checkDetails(r *collector, ds models.Dataset, s models.Studio, artistIdx map[string]int) {
	want := linker.DetailsFor(s.Artists, ds.Artists, artistIdx)
	wantIDs := make(map[string]struct{}, len(want))
	have := make(map[string]models.ArtistDetail, len(s.ArtistDetails))
	for _, d := range s.ArtistDetails {
		if _, ok := have[d.ArtistID]; !ok {
			have[d.ArtistID] = d
		}
	}

	for _, w := range want {
		if _, dup := wantIDs[w.ArtistID]; dup {
			continue
		}
		wantIDs[w.ArtistID] = struct{}{}
		got, ok := have[w.ArtistID]
		switch {
		case !ok:
			r.add(CodeOutdatedArtistDetails, SeverityWarning, w.ArtistID, s.StudioID,
				"studio %s has no cached details for artist %s", s.StudioID, w.ArtistID)
		case got.ArtistName != w.ArtistName || got.Rating != w.Rating || !models.SameStyles(got.Styles, w.Styles):
			r.add(CodeOutdatedArtistDetails, SeverityWarning, w.ArtistID, s.StudioID,
				"studio %s caches stale details for artist %s", s.StudioID, w.ArtistID)
		}
	}

	reported := make(map[string]struct{})
	for _, d := range s.ArtistDetails {
		if _, ok := wantIDs[d.ArtistID]; ok {
			continue
		}
		if _, ok := reported[d.ArtistID]; ok {
			continue
		}
		reported[d.ArtistID] = struct{}{}
		r.add(CodeOutdatedArtistDetails, SeverityWarning, d.ArtistID, s.StudioID,
			"studio %s caches details for unlisted artist %s", s.StudioID, d.ArtistID)
	}
}

type collector struct {
	report Report
}

func (c *collector) add(code Code, sev Severity, artistID, studioID, format string, args ...any) {
	issue := Issue{
		Code:     code,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		ArtistID: artistID,
		StudioID: studioID,
	}
	if sev == SeverityError {
		c.report.Errors = append(c.report.Errors, issue)
	} else {
		c.report.Warnings = append(c.report.Warnings, issue)
	}
	c.report.Summary.ByCode[code]++
}
