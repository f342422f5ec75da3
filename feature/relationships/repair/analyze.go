package repair

import "relationship-manager/feature/relationships/models"

// Dangling is a studio entry that refers to no artist.
type Dangling struct {
	StudioID string `json:"studioId"`
	ArtistID string `json:"artistId"`
}

// Duplicate is an artist listed more than once across studios.
type Duplicate struct {
	ArtistID  string   `json:"artistId"`
	StudioIDs []string `json:"studioIds"`
}

// Analysis classifies the structural problems of a dataset.
type Analysis struct {
	Dangling     []Dangling  `json:"dangling"`
	Duplicates   []Duplicate `json:"duplicates"`
	Orphans      []string    `json:"orphans"`
	EmptyStudios []string    `json:"emptyStudios"`
}

// IsClean reports whether nothing structural needs fixing.
func (a Analysis) IsClean() bool {
	return len(a.Dangling) == 0 && len(a.Duplicates) == 0 && len(a.Orphans) == 0 && len(a.EmptyStudios) == 0
}

// Analyze inspects ds without modifying it.
func Analyze(ds models.Dataset) Analysis {
	var out Analysis
	artistIdx := ds.ArtistIndex()

	listedBy := make(map[string][]string)
	for _, s := range ds.Studios {
		if len(s.Artists) == 0 {
			out.EmptyStudios = append(out.EmptyStudios, s.StudioID)
		}
		for _, id := range s.Artists {
			if _, ok := artistIdx[id]; !ok {
				out.Dangling = append(out.Dangling, Dangling{StudioID: s.StudioID, ArtistID: id})
				continue
			}
			listedBy[id] = append(listedBy[id], s.StudioID)
		}
	}

	seen := make(map[string]struct{}, len(ds.Artists))
	for _, a := range ds.Artists {
		if _, dup := seen[a.ArtistID]; dup {
			continue
		}
		seen[a.ArtistID] = struct{}{}

		switch owners := listedBy[a.ArtistID]; {
		case len(owners) == 0:
			out.Orphans = append(out.Orphans, a.ArtistID)
		case len(owners) > 1:
			out.Duplicates = append(out.Duplicates, Duplicate{ArtistID: a.ArtistID, StudioIDs: owners})
		}
	}
	return out
}
