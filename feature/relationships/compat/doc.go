// Package compat scores how well an artist fits a studio.
//
// Two dimensions are evaluated independently:
//
//   - Geographic: locations are parsed from "area, city[, country]" strings.
//     Same city scores 1.0, same region 0.7, two distinct major cities 0.4.
//     Anything else is incompatible.
//   - Style: the share of the artist's styles offered by the studio, plus a
//     weighted share of styles that are adjacent to an offered one.
//
// A pair is compatible when the geography matches and either the style score
// clears Rules.MinStyleScore or the artist's rating clears
// Rules.RatingFallbackThreshold.
//
// All lookup tables live in Rules. DefaultRules provides the built-in UK tables
// and LoadRules overlays a TOML file:
//
//	rating_fallback_threshold = 4.0
//	major_cities = ["london", "manchester"]
//
//	[regions]
//	salford = "north_west"
//
//	[style_adjacency]
//	traditional = ["neo_traditional", "american_traditional"]
package compat
