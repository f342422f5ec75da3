package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"relationship-manager/core/searchindex"
	"relationship-manager/core/utils"
	"relationship-manager/feature/relationships/models"

	"github.com/redis/go-redis/v9"
)

// IndexMirror stores the dataset in the Redis search index.
//
//	<prefix>:artist:<id>   hash per artist
//	<prefix>:studio:<id>   hash per studio
//	<prefix>:artists       sorted set of artist IDs scored by position
//	<prefix>:studios       sorted set of studio IDs scored by position
//	<prefix>:style:<tag>   set of artist IDs carrying the tag
//	<prefix>:styles        set of known tags
//
// Entities are keyed by ID, so duplicated IDs collapse to the last record.
type IndexMirror struct {
	client *searchindex.Client
}

// NewIndexMirror creates a mirror over client.
func NewIndexMirror(client *searchindex.Client) *IndexMirror {
	return &IndexMirror{client: client}
}

func (m *IndexMirror) Name() string { return SourceIndex }

func (m *IndexMirror) artistKey(id string) string { return m.client.Key("artist", id) }
func (m *IndexMirror) studioKey(id string) string { return m.client.Key("studio", id) }
func (m *IndexMirror) styleKey(tag string) string { return m.client.Key("style", tag) }

// Save rebuilds every index key in one MULTI/EXEC block.
func (m *IndexMirror) Save(ctx context.Context, ds models.Dataset) error {
	rdb := m.client.Redis()
	artistsKey, studiosKey, stylesKey := m.client.Key("artists"), m.client.Key("studios"), m.client.Key("styles")

	oldArtists, err := rdb.ZRange(ctx, artistsKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list indexed artists: %w", err)
	}
	oldStudios, err := rdb.ZRange(ctx, studiosKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list indexed studios: %w", err)
	}
	oldStyles, err := rdb.SMembers(ctx, stylesKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list indexed styles: %w", err)
	}

	stale := []string{artistsKey, studiosKey, stylesKey}
	for _, id := range oldArtists {
		stale = append(stale, m.artistKey(id))
	}
	for _, id := range oldStudios {
		stale = append(stale, m.studioKey(id))
	}
	for _, tag := range oldStyles {
		stale = append(stale, m.styleKey(tag))
	}

	artistHashes := make([]map[string]interface{}, len(ds.Artists))
	for i, a := range ds.Artists {
		if artistHashes[i], err = artistToHash(a); err != nil {
			return err
		}
	}
	studioHashes := make([]map[string]interface{}, len(ds.Studios))
	for i, s := range ds.Studios {
		if studioHashes[i], err = studioToHash(s); err != nil {
			return err
		}
	}

	_, err = rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, stale...)
		for i, a := range ds.Artists {
			p.HSet(ctx, m.artistKey(a.ArtistID), artistHashes[i])
			p.ZAdd(ctx, artistsKey, redis.Z{Score: float64(i), Member: a.ArtistID})
			for _, tag := range a.Styles {
				p.SAdd(ctx, m.styleKey(tag), a.ArtistID)
				p.SAdd(ctx, stylesKey, tag)
			}
		}
		for i, s := range ds.Studios {
			p.HSet(ctx, m.studioKey(s.StudioID), studioHashes[i])
			p.ZAdd(ctx, studiosKey, redis.Z{Score: float64(i), Member: s.StudioID})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write search index: %w", err)
	}
	return nil
}

func (m *IndexMirror) Load(ctx context.Context) (models.Dataset, error) {
	rdb := m.client.Redis()

	artistIDs, err := rdb.ZRange(ctx, m.client.Key("artists"), 0, -1).Result()
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to list indexed artists: %w", err)
	}
	studioIDs, err := rdb.ZRange(ctx, m.client.Key("studios"), 0, -1).Result()
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to list indexed studios: %w", err)
	}

	artistCmds := make([]*redis.MapStringStringCmd, len(artistIDs))
	studioCmds := make([]*redis.MapStringStringCmd, len(studioIDs))
	_, err = rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range artistIDs {
			artistCmds[i] = p.HGetAll(ctx, m.artistKey(id))
		}
		for i, id := range studioIDs {
			studioCmds[i] = p.HGetAll(ctx, m.studioKey(id))
		}
		return nil
	})
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to read search index: %w", err)
	}

	ds := models.Dataset{
		Artists: make([]models.Artist, 0, len(artistIDs)),
		Studios: make([]models.Studio, 0, len(studioIDs)),
	}
	for i, cmd := range artistCmds {
		a, err := hashToArtist(cmd.Val())
		if err != nil {
			return models.Dataset{}, fmt.Errorf("artist %s: %w", artistIDs[i], err)
		}
		ds.Artists = append(ds.Artists, a)
	}
	for i, cmd := range studioCmds {
		s, err := hashToStudio(cmd.Val())
		if err != nil {
			return models.Dataset{}, fmt.Errorf("studio %s: %w", studioIDs[i], err)
		}
		ds.Studios = append(ds.Studios, s)
	}
	return ds, nil
}

// ArtistsByStyle returns the sorted IDs of artists carrying tag.
func (m *IndexMirror) ArtistsByStyle(ctx context.Context, tag string) ([]string, error) {
	ids, err := m.client.Redis().SMembers(ctx, m.styleKey(tag)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read style %s: %w", tag, err)
	}
	sort.Strings(ids)
	return ids, nil
}

func artistToHash(a models.Artist) (map[string]interface{}, error) {
	styles, err := json.Marshal(a.Styles)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal styles: %w", err)
	}
	ref := ""
	if a.StudioRef != nil {
		data, err := json.Marshal(a.StudioRef)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal studio ref: %w", err)
		}
		ref = string(data)
	}
	return map[string]interface{}{
		"artist_id":        a.ArtistID,
		"display_name":     a.DisplayName,
		"styles":           string(styles),
		"location_display": a.LocationDisplay,
		"rating":           a.Rating,
		"studio_ref":       ref,
	}, nil
}

func hashToArtist(h map[string]string) (models.Artist, error) {
	a := models.Artist{
		ArtistID:        h["artist_id"],
		DisplayName:     h["display_name"],
		LocationDisplay: h["location_display"],
		Rating:          utils.ToFloat(h["rating"]),
	}
	if err := unmarshalField(h, "styles", &a.Styles); err != nil {
		return a, err
	}
	if h["studio_ref"] != "" {
		var ref models.StudioRef
		if err := unmarshalField(h, "studio_ref", &ref); err != nil {
			return a, err
		}
		a.StudioRef = &ref
	}
	return a, nil
}

func studioToHash(s models.Studio) (map[string]interface{}, error) {
	hash := map[string]interface{}{
		"studio_id":              s.StudioID,
		"studio_name":            s.StudioName,
		"address":                s.Address,
		"location_display":       s.LocationDisplay,
		"postcode":               s.Postcode,
		"latitude":               s.Latitude,
		"longitude":              s.Longitude,
		"artist_count":           s.ArtistCount,
		"max_artists_per_studio": s.MaxArtistsPerStudio,
		"min_artists_per_studio": s.MinArtistsPerStudio,
	}
	lists := map[string]any{
		"specialties":    s.Specialties,
		"artists":        s.Artists,
		"artist_details": s.ArtistDetails,
	}
	for field, v := range lists {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", field, err)
		}
		hash[field] = string(data)
	}
	return hash, nil
}

func hashToStudio(h map[string]string) (models.Studio, error) {
	s := models.Studio{
		StudioID:            h["studio_id"],
		StudioName:          h["studio_name"],
		Address:             h["address"],
		LocationDisplay:     h["location_display"],
		Postcode:            h["postcode"],
		Latitude:            utils.ToFloat(h["latitude"]),
		Longitude:           utils.ToFloat(h["longitude"]),
		ArtistCount:         utils.ToInt(h["artist_count"]),
		MaxArtistsPerStudio: utils.ToInt(h["max_artists_per_studio"]),
		MinArtistsPerStudio: utils.ToInt(h["min_artists_per_studio"]),
	}
	if err := unmarshalField(h, "specialties", &s.Specialties); err != nil {
		return s, err
	}
	if err := unmarshalField(h, "artists", &s.Artists); err != nil {
		return s, err
	}
	if err := unmarshalField(h, "artist_details", &s.ArtistDetails); err != nil {
		return s, err
	}
	return s, nil
}

func unmarshalField(h map[string]string, field string, dst any) error {
	raw := h[field]
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", field, err)
	}
	return nil
}
