package linker

import "relationship-manager/feature/relationships/models"

// Synchronize returns a copy of ds with every denormalized field re-derived.
//
// An artist listed by several studios takes its StudioRef from the first one in
// collection order; an artist listed by none loses its StudioRef. Studio IDs
// listed with no matching artist get no detail entry. The function is
// idempotent.
func Synchronize(ds models.Dataset) models.Dataset {
	out := ds.Clone()
	owners := out.Owners()

	for i := range out.Artists {
		a := &out.Artists[i]
		idx, ok := owners[a.ArtistID]
		if !ok {
			a.StudioRef = nil
			continue
		}
		ref := RefFor(out.Studios[idx[0]])
		a.StudioRef = &ref
	}

	byID := out.ArtistIndex()
	for i := range out.Studios {
		s := &out.Studios[i]
		if s.Artists == nil {
			s.Artists = []string{}
		}
		s.ArtistCount = len(s.Artists)
		s.ArtistDetails = DetailsFor(s.Artists, out.Artists, byID)
	}
	return out
}

// RefFor builds the StudioRef an artist assigned to s should carry.
func RefFor(s models.Studio) models.StudioRef {
	return models.StudioRef{
		StudioID:   s.StudioID,
		StudioName: s.StudioName,
		Address: models.Address{
			Street:    s.Address,
			City:      City(s.LocationDisplay),
			Postcode:  s.Postcode,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		},
	}
}

// DetailFor builds the ArtistDetail cached on a studio for a.
func DetailFor(a models.Artist) models.ArtistDetail {
	var styles []string
	if a.Styles != nil {
		styles = make([]string, len(a.Styles))
		copy(styles, a.Styles)
	}
	return models.ArtistDetail{
		ArtistID:   a.ArtistID,
		ArtistName: a.DisplayName,
		Styles:     styles,
		Rating:     a.Rating,
	}
}

// DetailsFor builds one detail per listed ID that resolves to an artist.
func DetailsFor(ids []string, artists []models.Artist, byID map[string]int) []models.ArtistDetail {
	details := make([]models.ArtistDetail, 0, len(ids))
	for _, id := range ids {
		ai, ok := byID[id]
		if !ok {
			continue
		}
		details = append(details, DetailFor(artists[ai]))
	}
	return details
}
