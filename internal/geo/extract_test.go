package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPlaceName(t *testing.T) {
	cases := []struct {
		name     string
		location string
		want     string
	}{
		{"bare name", "Eiffel Tower", "Eiffel Tower"},
		{"comma cut", "Louvre Museum, 1st arrondissement, Paris", "Louvre Museum"},
		{"parenthetical", "Sagrada Família (book ahead)", "Sagrada Família"},
		{"transit keeps destination", "Hotel Lutetia to Musée d'Orsay", "Musée d'Orsay"},
		{"alternatives keep first", "Tsukiji Market / Toyosu Market", "Tsukiji Market"},
		{"combined", "Arc de Triomphe (8e) to Champs-Élysées / Avenue Foch, Paris", "Champs-Élysées"},
		{"whitespace", "  Piazza Navona  ", "Piazza Navona"},
		{"empty", "", ""},
		{"word containing to is not transit", "Toronto Islands", "Toronto Islands"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractPlaceName(tc.location))
		})
	}
}

func TestQueryChain(t *testing.T) {
	t.Run("full fallback order", func(t *testing.T) {
		queries := queryChain("Arc de Triomphe (8e) to Champs-Élysées / Avenue Foch", "Paris")
		assert.Equal(t, []string{
			"Champs-Élysées, Paris",
			"Arc de Triomphe (8e) to Champs-Élysées / Avenue Foch, Paris",
			"Arc de Triomphe (8e) to Champs-Élysées / Avenue Foch",
		}, queries)
	})

	t.Run("bare place name deduplicates", func(t *testing.T) {
		queries := queryChain("Eiffel Tower", "Paris")
		assert.Equal(t, []string{
			"Eiffel Tower, Paris",
			"Eiffel Tower",
		}, queries)
	})
}
