// Package cities provides offline destination autocomplete over a static
// city table. It backs the trip form when the backend's /search/cities
// endpoint is unreachable.
package cities

import (
	"sort"
	"strings"

	"precisely/internal/model"
)

// dataset is a compact table of frequently planned destinations. The full
// dataset lives server-side; this is only the offline fallback.
var dataset = []model.City{
	{Name: "Amsterdam", Country: "Netherlands", IATACode: "AMS"},
	{Name: "Athens", Country: "Greece", IATACode: "ATH"},
	{Name: "Bangkok", Country: "Thailand", IATACode: "BKK"},
	{Name: "Barcelona", Country: "Spain", IATACode: "BCN"},
	{Name: "Beijing", Country: "China", IATACode: "PEK"},
	{Name: "Berlin", Country: "Germany", IATACode: "BER"},
	{Name: "Boston", Country: "United States", IATACode: "BOS"},
	{Name: "Budapest", Country: "Hungary", IATACode: "BUD"},
	{Name: "Buenos Aires", Country: "Argentina", IATACode: "EZE"},
	{Name: "Cairo", Country: "Egypt", IATACode: "CAI"},
	{Name: "Cape Town", Country: "South Africa", IATACode: "CPT"},
	{Name: "Chicago", Country: "United States", IATACode: "ORD"},
	{Name: "Copenhagen", Country: "Denmark", IATACode: "CPH"},
	{Name: "Dubai", Country: "United Arab Emirates", IATACode: "DXB"},
	{Name: "Dublin", Country: "Ireland", IATACode: "DUB"},
	{Name: "Edinburgh", Country: "United Kingdom", IATACode: "EDI"},
	{Name: "Florence", Country: "Italy", IATACode: "FLR"},
	{Name: "Hanoi", Country: "Vietnam", IATACode: "HAN"},
	{Name: "Hong Kong", Country: "China", IATACode: "HKG"},
	{Name: "Istanbul", Country: "Turkey", IATACode: "IST"},
	{Name: "Kyoto", Country: "Japan", IATACode: "UKY"},
	{Name: "Lisbon", Country: "Portugal", IATACode: "LIS"},
	{Name: "London", Country: "United Kingdom", IATACode: "LHR"},
	{Name: "Los Angeles", Country: "United States", IATACode: "LAX"},
	{Name: "Madrid", Country: "Spain", IATACode: "MAD"},
	{Name: "Marrakech", Country: "Morocco", IATACode: "RAK"},
	{Name: "Melbourne", Country: "Australia", IATACode: "MEL"},
	{Name: "Mexico City", Country: "Mexico", IATACode: "MEX"},
	{Name: "Miami", Country: "United States", IATACode: "MIA"},
	{Name: "Montreal", Country: "Canada", IATACode: "YUL"},
	{Name: "Mumbai", Country: "India", IATACode: "BOM"},
	{Name: "New Orleans", Country: "United States", IATACode: "MSY"},
	{Name: "New York", Country: "United States", IATACode: "JFK"},
	{Name: "Osaka", Country: "Japan", IATACode: "KIX"},
	{Name: "Oslo", Country: "Norway", IATACode: "OSL"},
	{Name: "Paris", Country: "France", IATACode: "CDG"},
	{Name: "Prague", Country: "Czech Republic", IATACode: "PRG"},
	{Name: "Reykjavik", Country: "Iceland", IATACode: "KEF"},
	{Name: "Rio de Janeiro", Country: "Brazil", IATACode: "GIG"},
	{Name: "Rome", Country: "Italy", IATACode: "FCO"},
	{Name: "San Francisco", Country: "United States", IATACode: "SFO"},
	{Name: "Seoul", Country: "South Korea", IATACode: "ICN"},
	{Name: "Seville", Country: "Spain", IATACode: "SVQ"},
	{Name: "Singapore", Country: "Singapore", IATACode: "SIN"},
	{Name: "Stockholm", Country: "Sweden", IATACode: "ARN"},
	{Name: "Sydney", Country: "Australia", IATACode: "SYD"},
	{Name: "Tokyo", Country: "Japan", IATACode: "HND"},
	{Name: "Toronto", Country: "Canada", IATACode: "YYZ"},
	{Name: "Vancouver", Country: "Canada", IATACode: "YVR"},
	{Name: "Venice", Country: "Italy", IATACode: "VCE"},
	{Name: "Vienna", Country: "Austria", IATACode: "VIE"},
	{Name: "Zurich", Country: "Switzerland", IATACode: "ZRH"},
}

// score rates how well a city matches a query. Higher is better; zero means
// no match. Name prefix beats word prefix beats substring; country matches
// score below all name matches.
func score(city model.City, query string) int {
	name := strings.ToLower(city.Name)
	country := strings.ToLower(city.Country)

	switch {
	case name == query:
		return 100
	case strings.HasPrefix(name, query):
		return 80
	case wordPrefix(name, query):
		return 60
	case strings.Contains(name, query):
		return 40
	case strings.HasPrefix(country, query):
		return 20
	case strings.Contains(country, query):
		return 10
	}
	return 0
}

func wordPrefix(name, query string) bool {
	for _, w := range strings.Fields(name) {
		if strings.HasPrefix(w, query) {
			return true
		}
	}
	return false
}

// Search returns up to limit cities matching the query, best match first.
// Ties keep dataset order, which is alphabetical.
func Search(query string, limit int) []model.City {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	type scored struct {
		city  model.City
		score int
		index int
	}
	var matches []scored
	for i, city := range dataset {
		if s := score(city, query); s > 0 {
			matches = append(matches, scored{city, s, i})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].index < matches[j].index
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]model.City, len(matches))
	for i, m := range matches {
		out[i] = m.city
	}
	return out
}
