package geo

import (
	"regexp"
	"strings"
)

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)
	transitRe       = regexp.MustCompile(`^(.*\S)\s+to\s+(\S.*)$`)
)

// ExtractPlaceName reduces a raw itinerary location string to the place name
// most likely to geocode. Itinerary locations are free text like
// "Arc de Triomphe (8e) to Champs-Élysées / Avenue Foch, Paris":
//   - only the part before the first comma is kept
//   - parenthetical annotations are stripped
//   - an "<X> to <Y>" transit pattern keeps the destination <Y>
//   - of alternatives joined by " / ", only the first is kept
func ExtractPlaceName(location string) string {
	name := location
	if i := strings.Index(name, ","); i >= 0 {
		name = name[:i]
	}

	name = parentheticalRe.ReplaceAllString(name, "")

	if m := transitRe.FindStringSubmatch(name); m != nil {
		name = m[2]
	}

	if i := strings.Index(name, " / "); i >= 0 {
		name = name[:i]
	}

	return strings.TrimSpace(name)
}

// queryChain builds the fallback geocoding queries for a location, in the
// order they should be tried. Exact duplicates are skipped so a location
// that is already a bare place name does not query twice.
func queryChain(location, destination string) []string {
	candidates := []string{
		ExtractPlaceName(location) + ", " + destination,
		location + ", " + destination,
		location,
	}

	seen := make(map[string]bool, len(candidates))
	var queries []string
	for _, q := range candidates {
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
	}
	return queries
}
