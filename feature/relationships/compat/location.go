package compat

import "strings"

// Location is a parsed "area, city[, country]" string. Fields are lowercase.
type Location struct {
	Area    string
	City    string
	Country string
}

// ParseLocation splits a free-text location display string.
//
//	"Shoreditch, London"      -> {shoreditch london <default>}
//	"Leith, Edinburgh, UK"    -> {leith edinburgh uk}
//	"Bristol"                 -> {"" bristol <default>}
func ParseLocation(display, defaultCountry string) Location {
	var parts []string
	for _, p := range strings.Split(display, ",") {
		if p = normalize(p); p != "" {
			parts = append(parts, p)
		}
	}

	loc := Location{Country: normalize(defaultCountry)}
	switch len(parts) {
	case 0:
	case 1:
		loc.City = parts[0]
	case 2:
		loc.Area, loc.City = parts[0], parts[1]
	default:
		loc.Area, loc.City = parts[0], parts[1]
		loc.Country = parts[len(parts)-1]
	}
	return loc
}

// Known reports whether a city could be parsed.
func (l Location) Known() bool {
	return l.City != ""
}
