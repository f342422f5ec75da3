package linker

import "strings"

// City extracts the city from an "area, city[, country]" display string,
// preserving its original casing.
func City(display string) string {
	var parts []string
	for _, p := range strings.Split(display, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[1]
	}
}
