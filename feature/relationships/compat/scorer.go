package compat

import (
	"sort"

	"relationship-manager/feature/relationships/models"
)

// Reason explains the geographic verdict.
type Reason string

const (
	ReasonSameCity          Reason = "same_city"
	ReasonSameRegion        Reason = "same_region"
	ReasonMajorCities       Reason = "major_cities"
	ReasonDifferentLocation Reason = "different_location"
	ReasonUnknownLocation   Reason = "unknown_location"
)

// Geographic scores.
const (
	scoreSameCity    = 1.0
	scoreSameRegion  = 0.7
	scoreMajorCities = 0.4

	// neutralStyleScore applies when either side has no style tags.
	neutralStyleScore = 0.5
)

// GeoVerdict is the result of the geographic dimension.
type GeoVerdict struct {
	Compatible bool    `json:"compatible"`
	Score      float64 `json:"score"`
	Reason     Reason  `json:"reason"`
}

// StyleVerdict is the result of the style dimension.
type StyleVerdict struct {
	Compatible bool    `json:"compatible"`
	Score      float64 `json:"score"`
	Exact      float64 `json:"exact"`
	Related    float64 `json:"related"`
}

// Verdict combines both dimensions for one artist/studio pair.
type Verdict struct {
	Compatible bool         `json:"compatible"`
	Score      float64      `json:"score"`
	Reason     Reason       `json:"reason"`
	Geographic GeoVerdict   `json:"geographic"`
	Style      StyleVerdict `json:"style"`
	// ViaRating is set when the pair only qualified through the rating fallback.
	ViaRating bool `json:"viaRating"`
}

// Candidate is a compatible artist with its verdict and input position.
type Candidate struct {
	Index   int
	Artist  models.Artist
	Verdict Verdict
}

// Scorer evaluates artist/studio compatibility against a rule set.
type Scorer struct {
	rules   Rules
	regions map[string]string
	majors  map[string]struct{}
	related map[string]map[string]struct{}
}

// NewScorer builds a scorer from rules. The rules are copied into lookup sets.
func NewScorer(rules Rules) *Scorer {
	s := &Scorer{
		rules:   rules,
		regions: make(map[string]string, len(rules.Regions)),
		majors:  make(map[string]struct{}, len(rules.MajorCities)),
		related: make(map[string]map[string]struct{}, len(rules.StyleAdjacency)),
	}
	for city, region := range rules.Regions {
		s.regions[normalize(city)] = normalize(region)
	}
	for _, c := range rules.MajorCities {
		s.majors[normalize(c)] = struct{}{}
	}
	for style, adj := range rules.StyleAdjacency {
		set := make(map[string]struct{}, len(adj))
		for _, a := range adj {
			set[normalize(a)] = struct{}{}
		}
		s.related[normalize(style)] = set
	}
	return s
}

// Rules returns the rule set the scorer was built with.
func (s *Scorer) Rules() Rules {
	return s.rules
}

// Geographic compares the artist's and studio's parsed locations.
func (s *Scorer) Geographic(artist models.Artist, studio models.Studio) GeoVerdict {
	a := ParseLocation(artist.LocationDisplay, s.rules.DefaultCountry)
	b := ParseLocation(studio.LocationDisplay, s.rules.DefaultCountry)

	if !a.Known() || !b.Known() {
		return GeoVerdict{Reason: ReasonUnknownLocation}
	}
	if a.Country != b.Country {
		return GeoVerdict{Reason: ReasonDifferentLocation}
	}
	if a.City == b.City {
		return GeoVerdict{Compatible: true, Score: scoreSameCity, Reason: ReasonSameCity}
	}
	ra, okA := s.regions[a.City]
	rb, okB := s.regions[b.City]
	if okA && okB && ra == rb {
		return GeoVerdict{Compatible: true, Score: scoreSameRegion, Reason: ReasonSameRegion}
	}
	_, majorA := s.majors[a.City]
	_, majorB := s.majors[b.City]
	if majorA && majorB {
		return GeoVerdict{Compatible: true, Score: scoreMajorCities, Reason: ReasonMajorCities}
	}
	return GeoVerdict{Reason: ReasonDifferentLocation}
}

// Style compares the artist's styles against the studio's specialties.
func (s *Scorer) Style(artist models.Artist, studio models.Studio) StyleVerdict {
	styles := uniqueNormalized(artist.Styles)
	specialties := uniqueNormalized(studio.Specialties)
	if len(styles) == 0 || len(specialties) == 0 {
		return StyleVerdict{
			Compatible: neutralStyleScore > s.rules.MinStyleScore,
			Score:      neutralStyleScore,
		}
	}

	offered := make(map[string]struct{}, len(specialties))
	for _, sp := range specialties {
		offered[sp] = struct{}{}
	}

	var exact, related int
	for _, st := range styles {
		if _, ok := offered[st]; ok {
			exact++
			continue
		}
		for adj := range s.related[st] {
			if _, ok := offered[adj]; ok {
				related++
				break
			}
		}
	}

	total := float64(len(styles))
	v := StyleVerdict{
		Exact:   float64(exact) / total,
		Related: float64(related) / total,
	}
	v.Score = v.Exact + s.rules.RelatedStyleWeight*v.Related
	if v.Score > 1 {
		v.Score = 1
	}
	v.Compatible = v.Score > s.rules.MinStyleScore
	return v
}

// Score evaluates both dimensions plus the rating fallback.
func (s *Scorer) Score(artist models.Artist, studio models.Studio) Verdict {
	geo := s.Geographic(artist, studio)
	style := s.Style(artist, studio)

	v := Verdict{
		Reason:     geo.Reason,
		Geographic: geo,
		Style:      style,
	}
	if !geo.Compatible {
		return v
	}
	switch {
	case style.Compatible:
		v.Compatible = true
	case artist.Rating >= s.rules.RatingFallbackThreshold:
		v.Compatible = true
		v.ViaRating = true
	}
	if v.Compatible {
		v.Score = (geo.Score + style.Score) / 2
	}
	return v
}

// FindCompatibleArtists returns the artists from pool compatible with studio,
// best score first. Equal scores keep their pool order.
func (s *Scorer) FindCompatibleArtists(studio models.Studio, pool []models.Artist) []Candidate {
	var out []Candidate
	for i, a := range pool {
		v := s.Score(a, studio)
		if !v.Compatible {
			continue
		}
		out = append(out, Candidate{Index: i, Artist: a, Verdict: v})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Verdict.Score > out[j].Verdict.Score
	})
	return out
}

func uniqueNormalized(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		n := normalize(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
