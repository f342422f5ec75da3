package compat

import (
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Rules holds the lookup tables and thresholds used by the Scorer.
// Tables are keyed by lowercase city and style names.
type Rules struct {
	// Regions maps a city to the region it belongs to.
	Regions map[string]string `toml:"regions"`
	// MajorCities lists cities that are considered mutually reachable.
	MajorCities []string `toml:"major_cities"`
	// StyleAdjacency maps a style to styles considered closely related.
	StyleAdjacency map[string][]string `toml:"style_adjacency"`
	// RatingFallbackThreshold lets artists rated at or above it bypass the style check.
	RatingFallbackThreshold float64 `toml:"rating_fallback_threshold"`
	// MinStyleScore is the exclusive lower bound for style compatibility.
	MinStyleScore float64 `toml:"min_style_score"`
	// RelatedStyleWeight scales the related-style ratio.
	RelatedStyleWeight float64 `toml:"related_style_weight"`
	// DefaultCountry is assumed when a location omits one.
	DefaultCountry string `toml:"default_country"`
}

// Styles is the canonical list of style tags.
var Styles = []string{
	"old_school", "traditional", "new_school", "neo_traditional", "tribal",
	"blackwork", "dotwork", "geometric", "japanese", "lettering",
	"biomechanical", "watercolour", "floral", "fineline", "realism",
	"minimalist", "surrealism", "portrait", "sketch", "illustrative",
	"ornamental", "trash_polka",
}

// DefaultRules returns the built-in UK tables.
// Each call returns fresh maps so callers may modify the result.
func DefaultRules() Rules {
	return Rules{
		Regions: map[string]string{
			"london":     "greater_london",
			"croydon":    "greater_london",
			"manchester": "north_west",
			"liverpool":  "north_west",
			"salford":    "north_west",
			"birmingham": "west_midlands",
			"coventry":   "west_midlands",
			"leeds":      "yorkshire",
			"sheffield":  "yorkshire",
			"york":       "yorkshire",
			"bristol":    "south_west",
			"bath":       "south_west",
			"brighton":   "south_east",
			"oxford":     "south_east",
			"newcastle":  "north_east",
			"sunderland": "north_east",
			"nottingham": "east_midlands",
			"leicester":  "east_midlands",
			"edinburgh":  "scotland",
			"glasgow":    "scotland",
			"cardiff":    "wales",
			"swansea":    "wales",
		},
		MajorCities: []string{
			"london", "manchester", "birmingham", "leeds", "glasgow",
			"liverpool", "bristol", "edinburgh",
		},
		StyleAdjacency: map[string][]string{
			"traditional":     {"neo_traditional", "american_traditional", "old_school"},
			"old_school":      {"traditional", "american_traditional"},
			"neo_traditional": {"traditional", "illustrative", "new_school"},
			"new_school":      {"neo_traditional", "illustrative"},
			"blackwork":       {"dotwork", "geometric", "tribal", "ornamental"},
			"dotwork":         {"blackwork", "geometric", "ornamental"},
			"geometric":       {"dotwork", "blackwork", "minimalist"},
			"fineline":        {"minimalist", "floral", "sketch"},
			"minimalist":      {"fineline", "geometric"},
			"realism":         {"portrait", "surrealism"},
			"portrait":        {"realism"},
			"surrealism":      {"realism", "illustrative"},
			"watercolour":     {"illustrative", "floral", "sketch"},
			"illustrative":    {"neo_traditional", "watercolour", "sketch"},
			"sketch":          {"illustrative", "fineline"},
			"japanese":        {"neo_traditional", "traditional"},
			"ornamental":      {"dotwork", "blackwork"},
			"tribal":          {"blackwork"},
			"trash_polka":     {"blackwork", "realism"},
		},
		RatingFallbackThreshold: 4.5,
		MinStyleScore:           0.3,
		RelatedStyleWeight:      0.5,
		DefaultCountry:          "uk",
	}
}

// LoadRules reads a TOML file and overlays it on DefaultRules.
// Tables present in the file replace the default entries key by key.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	var overlay Rules
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	rules.merge(overlay)
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate checks that thresholds are within range.
func (r Rules) Validate() error {
	if r.MinStyleScore < 0 || r.MinStyleScore > 1 {
		return fmt.Errorf("min_style_score must be within [0,1], got %v", r.MinStyleScore)
	}
	if r.RelatedStyleWeight < 0 || r.RelatedStyleWeight > 1 {
		return fmt.Errorf("related_style_weight must be within [0,1], got %v", r.RelatedStyleWeight)
	}
	if r.RatingFallbackThreshold < 0 {
		return fmt.Errorf("rating_fallback_threshold must not be negative, got %v", r.RatingFallbackThreshold)
	}
	return nil
}

func (r *Rules) merge(o Rules) {
	for city, region := range o.Regions {
		r.Regions[normalize(city)] = normalize(region)
	}
	if len(o.MajorCities) > 0 {
		r.MajorCities = make([]string, 0, len(o.MajorCities))
		for _, c := range o.MajorCities {
			r.MajorCities = append(r.MajorCities, normalize(c))
		}
	}
	for style, related := range o.StyleAdjacency {
		norm := make([]string, 0, len(related))
		for _, s := range related {
			norm = append(norm, normalize(s))
		}
		r.StyleAdjacency[normalize(style)] = norm
	}
	if o.RatingFallbackThreshold != 0 {
		r.RatingFallbackThreshold = o.RatingFallbackThreshold
	}
	if o.MinStyleScore != 0 {
		r.MinStyleScore = o.MinStyleScore
	}
	if o.RelatedStyleWeight != 0 {
		r.RelatedStyleWeight = o.RelatedStyleWeight
	}
	if o.DefaultCountry != "" {
		r.DefaultCountry = normalize(o.DefaultCountry)
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
