package mirror

import (
	"context"
	"fmt"

	"relationship-manager/feature/relationships/models"

	"gorm.io/gorm"
)

// ArtistRecord is the artists table row. Position keeps collection order and
// is the primary key so duplicated IDs survive a round-trip.
type ArtistRecord struct {
	Position        int               `gorm:"column:position;primaryKey;autoIncrement:false"`
	ArtistID        string            `gorm:"column:artist_id;size:64;index"`
	DisplayName     string            `gorm:"column:display_name;size:255"`
	Styles          []string          `gorm:"column:styles;type:text;serializer:json"`
	LocationDisplay string            `gorm:"column:location_display;size:255"`
	Rating          float64           `gorm:"column:rating"`
	StudioRef       *models.StudioRef `gorm:"column:studio_ref;type:text;serializer:json"`
}

func (ArtistRecord) TableName() string { return "artists" }

// StudioRecord is the studios table row.
type StudioRecord struct {
	Position            int                   `gorm:"column:position;primaryKey;autoIncrement:false"`
	StudioID            string                `gorm:"column:studio_id;size:64;index"`
	StudioName          string                `gorm:"column:studio_name;size:255"`
	Address             string                `gorm:"column:address;size:255"`
	LocationDisplay     string                `gorm:"column:location_display;size:255"`
	Postcode            string                `gorm:"column:postcode;size:16"`
	Latitude            float64               `gorm:"column:latitude"`
	Longitude           float64               `gorm:"column:longitude"`
	Specialties         []string              `gorm:"column:specialties;type:text;serializer:json"`
	Artists             []string              `gorm:"column:artists;type:text;serializer:json"`
	ArtistCount         int                   `gorm:"column:artist_count"`
	ArtistDetails       []models.ArtistDetail `gorm:"column:artist_details;type:text;serializer:json"`
	MaxArtistsPerStudio int                   `gorm:"column:max_artists_per_studio"`
	MinArtistsPerStudio int                   `gorm:"column:min_artists_per_studio"`
}

func (StudioRecord) TableName() string { return "studios" }

// ArtistColumns and StudioColumns are the columns the schema check expects.
var (
	ArtistColumns = []string{"position", "artist_id", "display_name", "styles", "location_display", "rating", "studio_ref"}
	StudioColumns = []string{
		"position", "studio_id", "studio_name", "address", "location_display", "postcode",
		"latitude", "longitude", "specialties", "artists", "artist_count", "artist_details",
		"max_artists_per_studio", "min_artists_per_studio",
	}
)

const insertBatchSize = 200

// DocumentMirror stores the dataset in the artists and studios tables.
type DocumentMirror struct {
	db *gorm.DB
}

// NewDocumentMirror creates a mirror over db.
func NewDocumentMirror(db *gorm.DB) *DocumentMirror {
	return &DocumentMirror{db: db}
}

func (m *DocumentMirror) Name() string { return SourceDocuments }

// EnsureSchema creates or migrates both tables.
func (m *DocumentMirror) EnsureSchema(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&ArtistRecord{}, &StudioRecord{}); err != nil {
		return fmt.Errorf("failed to migrate document store: %w", err)
	}
	return nil
}

func (m *DocumentMirror) Load(ctx context.Context) (models.Dataset, error) {
	var artists []ArtistRecord
	if err := m.db.WithContext(ctx).Order("position").Find(&artists).Error; err != nil {
		return models.Dataset{}, fmt.Errorf("failed to load artists: %w", err)
	}
	var studios []StudioRecord
	if err := m.db.WithContext(ctx).Order("position").Find(&studios).Error; err != nil {
		return models.Dataset{}, fmt.Errorf("failed to load studios: %w", err)
	}

	ds := models.Dataset{
		Artists: make([]models.Artist, 0, len(artists)),
		Studios: make([]models.Studio, 0, len(studios)),
	}
	for _, r := range artists {
		ds.Artists = append(ds.Artists, r.toModel())
	}
	for _, r := range studios {
		ds.Studios = append(ds.Studios, r.toModel())
	}
	return ds, nil
}

// Save replaces both tables in one transaction.
func (m *DocumentMirror) Save(ctx context.Context, ds models.Dataset) error {
	artists := make([]ArtistRecord, 0, len(ds.Artists))
	for i, a := range ds.Artists {
		artists = append(artists, artistRecord(i, a))
	}
	studios := make([]StudioRecord, 0, len(ds.Studios))
	for i, s := range ds.Studios {
		studios = append(studios, studioRecord(i, s))
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&ArtistRecord{}).Error; err != nil {
			return fmt.Errorf("clear artists: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&StudioRecord{}).Error; err != nil {
			return fmt.Errorf("clear studios: %w", err)
		}
		if len(artists) > 0 {
			if err := tx.CreateInBatches(artists, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert artists: %w", err)
			}
		}
		if len(studios) > 0 {
			if err := tx.CreateInBatches(studios, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert studios: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save document store: %w", err)
	}
	return nil
}

func artistRecord(pos int, a models.Artist) ArtistRecord {
	return ArtistRecord{
		Position:        pos,
		ArtistID:        a.ArtistID,
		DisplayName:     a.DisplayName,
		Styles:          a.Styles,
		LocationDisplay: a.LocationDisplay,
		Rating:          a.Rating,
		StudioRef:       a.StudioRef,
	}
}

func (r ArtistRecord) toModel() models.Artist {
	return models.Artist{
		ArtistID:        r.ArtistID,
		DisplayName:     r.DisplayName,
		Styles:          r.Styles,
		LocationDisplay: r.LocationDisplay,
		Rating:          r.Rating,
		StudioRef:       r.StudioRef,
	}
}

func studioRecord(pos int, s models.Studio) StudioRecord {
	return StudioRecord{
		Position:            pos,
		StudioID:            s.StudioID,
		StudioName:          s.StudioName,
		Address:             s.Address,
		LocationDisplay:     s.LocationDisplay,
		Postcode:            s.Postcode,
		Latitude:            s.Latitude,
		Longitude:           s.Longitude,
		Specialties:         s.Specialties,
		Artists:             s.Artists,
		ArtistCount:         s.ArtistCount,
		ArtistDetails:       s.ArtistDetails,
		MaxArtistsPerStudio: s.MaxArtistsPerStudio,
		MinArtistsPerStudio: s.MinArtistsPerStudio,
	}
}

func (r StudioRecord) toModel() models.Studio {
	return models.Studio{
		StudioID:            r.StudioID,
		StudioName:          r.StudioName,
		Address:             r.Address,
		LocationDisplay:     r.LocationDisplay,
		Postcode:            r.Postcode,
		Latitude:            r.Latitude,
		Longitude:           r.Longitude,
		Specialties:         r.Specialties,
		Artists:             r.Artists,
		ArtistCount:         r.ArtistCount,
		ArtistDetails:       r.ArtistDetails,
		MaxArtistsPerStudio: r.MaxArtistsPerStudio,
		MinArtistsPerStudio: r.MinArtistsPerStudio,
	}
}
