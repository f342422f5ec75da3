package models

// Address is the postal and geographic summary of a studio as cached on artists.
type Address struct {
	Street    string  `json:"street"`
	City      string  `json:"city"`
	Postcode  string  `json:"postcode"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// StudioRef is the denormalized studio summary stored on an assigned artist.
type StudioRef struct {
	StudioID   string  `json:"studioId"`
	StudioName string  `json:"studioName"`
	Address    Address `json:"address"`
}

// Artist is a single tattoo artist record.
type Artist struct {
	// ArtistID is the unique, stable identifier.
	ArtistID string `json:"artistId"`
	// DisplayName is the public name of the artist.
	DisplayName string `json:"displayName"`
	// Styles holds the style tags of the artist. Order is irrelevant.
	Styles []string `json:"styles"`
	// LocationDisplay is a free-text "area, city" string.
	LocationDisplay string `json:"locationDisplay"`
	// Rating is the average review rating (0-5).
	Rating float64 `json:"rating"`
	// StudioRef is present iff the artist is currently assigned.
	StudioRef *StudioRef `json:"studioRef,omitempty"`
}

// ArtistDetail is the per-artist cache entry held by a studio.
type ArtistDetail struct {
	ArtistID   string   `json:"artistId"`
	ArtistName string   `json:"artistName"`
	Styles     []string `json:"styles"`
	Rating     float64  `json:"rating"`
}

// Studio is a single tattoo studio record.
type Studio struct {
	StudioID        string  `json:"studioId"`
	StudioName      string  `json:"studioName"`
	Address         string  `json:"address"`
	LocationDisplay string  `json:"locationDisplay"`
	Postcode        string  `json:"postcode"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`

	// Specialties is derived from the styles of the assigned artists.
	Specialties []string `json:"specialties"`
	// Artists is the authoritative assignment list.
	Artists []string `json:"artists"`
	// ArtistCount must equal len(Artists).
	ArtistCount int `json:"artistCount"`
	// ArtistDetails caches one entry per assigned artist.
	ArtistDetails []ArtistDetail `json:"artistDetails"`

	// MaxArtistsPerStudio and MinArtistsPerStudio are capacity bounds.
	// Zero means "use the engine default".
	MaxArtistsPerStudio int `json:"maxArtistsPerStudio,omitempty"`
	MinArtistsPerStudio int `json:"minArtistsPerStudio,omitempty"`
}

// HasArtist reports whether id is in the studio's assignment list.
func (s *Studio) HasArtist(id string) bool {
	for _, a := range s.Artists {
		if a == id {
			return true
		}
	}
	return false
}

// RemoveArtist drops every occurrence of id from the assignment list.
// It returns true if anything was removed.
func (s *Studio) RemoveArtist(id string) bool {
	kept := s.Artists[:0:0]
	removed := false
	for _, a := range s.Artists {
		if a == id {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	s.Artists = kept
	return removed
}

// Capacity returns the effective (min, max) bounds for the studio.
func (s *Studio) Capacity(defaultMin, defaultMax int) (int, int) {
	lo, hi := s.MinArtistsPerStudio, s.MaxArtistsPerStudio
	if lo <= 0 {
		lo = defaultMin
	}
	if hi <= 0 {
		hi = defaultMax
	}
	if hi > 0 && lo > hi {
		lo = hi
	}
	return lo, hi
}

// Dataset is the pair of collections the engine operates on.
type Dataset struct {
	Artists []Artist `json:"artists"`
	Studios []Studio `json:"studios"`
}

// Clone returns a deep copy of the dataset.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Artists: make([]Artist, len(d.Artists)),
		Studios: make([]Studio, len(d.Studios)),
	}
	for i, a := range d.Artists {
		out.Artists[i] = a.clone()
	}
	for i, s := range d.Studios {
		out.Studios[i] = s.clone()
	}
	return out
}

// ArtistIndex maps artist IDs to their position in Artists.
// For duplicated IDs the first position wins.
func (d Dataset) ArtistIndex() map[string]int {
	idx := make(map[string]int, len(d.Artists))
	for i, a := range d.Artists {
		if _, ok := idx[a.ArtistID]; !ok {
			idx[a.ArtistID] = i
		}
	}
	return idx
}

// StudioIndex maps studio IDs to their position in Studios.
func (d Dataset) StudioIndex() map[string]int {
	idx := make(map[string]int, len(d.Studios))
	for i, s := range d.Studios {
		if _, ok := idx[s.StudioID]; !ok {
			idx[s.StudioID] = i
		}
	}
	return idx
}

// Owners maps every listed artist ID to the indices of the studios listing it,
// in collection order.
func (d Dataset) Owners() map[string][]int {
	owners := make(map[string][]int)
	for i, s := range d.Studios {
		seen := make(map[string]struct{}, len(s.Artists))
		for _, id := range s.Artists {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			owners[id] = append(owners[id], i)
		}
	}
	return owners
}

func (a Artist) clone() Artist {
	a.Styles = cloneStrings(a.Styles)
	if a.StudioRef != nil {
		ref := *a.StudioRef
		a.StudioRef = &ref
	}
	return a
}

func (s Studio) clone() Studio {
	s.Specialties = cloneStrings(s.Specialties)
	s.Artists = cloneStrings(s.Artists)
	if s.ArtistDetails != nil {
		details := make([]ArtistDetail, len(s.ArtistDetails))
		for i, d := range s.ArtistDetails {
			d.Styles = cloneStrings(d.Styles)
			details[i] = d
		}
		s.ArtistDetails = details
	}
	return s
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// SameStyles reports whether two style lists hold the same set of tags.
func SameStyles(a, b []string) bool {
	set := make(map[string]int, len(a))
	for _, s := range a {
		set[s]++
	}
	seenB := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, ok := set[s]; !ok {
			return false
		}
		seenB[s] = struct{}{}
	}
	return len(seenB) == len(set)
}
