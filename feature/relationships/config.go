package relationships

import (
	"fmt"
	"time"

	"relationship-manager/feature/relationships/mirror"
)

// Config holds the relationship engine settings.
type Config struct {
	// MinArtistsPerStudio is the default lower bound for studios without their own.
	MinArtistsPerStudio int `mapstructure:"min_artists_per_studio" default:"1"`
	// MaxArtistsPerStudio is the default upper bound. Zero means unbounded.
	MaxArtistsPerStudio int `mapstructure:"max_artists_per_studio" default:"10"`
	// RatingFallbackThreshold overrides the rules value when positive.
	RatingFallbackThreshold float64 `mapstructure:"rating_fallback_threshold" default:"0"`
	// DonorThreshold is the artist count a studio must exceed to donate during repair.
	DonorThreshold int `mapstructure:"donor_threshold" default:"2"`
	// RulesFile is an optional TOML overlay for the compatibility tables.
	RulesFile string `mapstructure:"rules_file" default:""`
	// Source names the mirror holding the canonical dataset.
	Source string `mapstructure:"source" default:"file"`
	// Mirrors lists the replicas written after the source, comma separated in env.
	Mirrors []string `mapstructure:"mirrors" default:""`
	// FixturePath is the local fixture file used by the file mirror.
	FixturePath string `mapstructure:"fixture_path" default:"data/fixtures.json"`
	// FixtureObject is the object key used by the bucket mirror.
	FixtureObject string `mapstructure:"fixture_object" default:"fixtures/relationships.json"`
	// LockFile serializes mutating CLI commands.
	LockFile string `mapstructure:"lock_file" default:".relationships.lock"`
	// DriftCacheTTLSeconds caches loaded mirrors between drift lookups. Zero disables.
	DriftCacheTTLSeconds int `mapstructure:"drift_cache_ttl_seconds" default:"60"`
}

// DriftCacheTTL returns DriftCacheTTLSeconds as a duration.
func (c Config) DriftCacheTTL() time.Duration {
	return time.Duration(c.DriftCacheTTLSeconds) * time.Second
}

// Validate checks bounds and mirror names.
func (c Config) Validate() error {
	if c.MinArtistsPerStudio < 0 || c.MaxArtistsPerStudio < 0 {
		return fmt.Errorf("artists per studio bounds cannot be negative")
	}
	if c.MaxArtistsPerStudio > 0 && c.MinArtistsPerStudio > c.MaxArtistsPerStudio {
		return fmt.Errorf("min artists per studio (%d) exceeds max (%d)", c.MinArtistsPerStudio, c.MaxArtistsPerStudio)
	}
	if c.DonorThreshold < 0 {
		return fmt.Errorf("donor threshold cannot be negative")
	}
	if !knownMirror(c.Source) {
		return fmt.Errorf("unknown source %q, expected one of %v", c.Source, mirror.Names())
	}
	seen := map[string]bool{c.Source: true}
	for _, m := range c.Mirrors {
		if !knownMirror(m) {
			return fmt.Errorf("unknown mirror %q, expected one of %v", m, mirror.Names())
		}
		if seen[m] {
			return fmt.Errorf("mirror %q listed twice or equal to the source", m)
		}
		seen[m] = true
	}
	return nil
}

func knownMirror(name string) bool {
	for _, n := range mirror.Names() {
		if n == name {
			return true
		}
	}
	return false
}
