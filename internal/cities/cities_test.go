package cities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(query string, limit int) []string {
	var out []string
	for _, c := range Search(query, limit) {
		out = append(out, c.Name)
	}
	return out
}

func TestSearchExactMatchFirst(t *testing.T) {
	got := names("paris", 8)
	require.NotEmpty(t, got)
	assert.Equal(t, "Paris", got[0])
}

func TestSearchPrefixBeatsSubstring(t *testing.T) {
	got := names("ven", 8)
	require.NotEmpty(t, got)
	assert.Equal(t, "Venice", got[0])
}

func TestSearchWordPrefix(t *testing.T) {
	got := names("aires", 8)
	require.NotEmpty(t, got)
	assert.Equal(t, "Buenos Aires", got[0])
}

func TestSearchByCountry(t *testing.T) {
	got := names("japan", 8)
	assert.Contains(t, got, "Tokyo")
	assert.Contains(t, got, "Kyoto")
}

func TestSearchCaseAndWhitespaceInsensitive(t *testing.T) {
	assert.Equal(t, names("tokyo", 3), names("  TOKYO ", 3))
}

func TestSearchLimit(t *testing.T) {
	got := Search("a", 3)
	assert.Len(t, got, 3)
}

func TestSearchNoMatch(t *testing.T) {
	assert.Empty(t, Search("xyzzy", 8))
}

func TestSearchEmptyQuery(t *testing.T) {
	assert.Nil(t, Search("", 8))
	assert.Nil(t, Search("paris", 0))
}
