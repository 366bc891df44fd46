package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precisely/internal/model"
)

type fakeSearcher struct {
	searchFunc func(ctx context.Context, query string) (Coordinates, bool, error)
	queries    []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (Coordinates, bool, error) {
	f.queries = append(f.queries, query)
	return f.searchFunc(ctx, query)
}

// newTestResolver removes the rate-limit delay so tests run instantly.
func newTestResolver(s Searcher, cache *Cache) *Resolver {
	r := NewResolver(s, cache)
	r.delay = 0
	return r
}

func items(locations ...string) []model.ItineraryItem {
	out := make([]model.ItineraryItem, len(locations))
	for i, loc := range locations {
		out[i] = model.ItineraryItem{Title: "Item " + loc, Location: loc}
	}
	return out
}

func TestResolveItemsPreservesOrder(t *testing.T) {
	coords := map[string]Coordinates{
		"Eiffel Tower, Paris":  {Lat: 48.858, Lon: 2.294},
		"Louvre Museum, Paris": {Lat: 48.861, Lon: 2.336},
	}
	searcher := &fakeSearcher{searchFunc: func(_ context.Context, query string) (Coordinates, bool, error) {
		c, ok := coords[query]
		return c, ok, nil
	}}

	points, err := newTestResolver(searcher, NewCache()).
		ResolveItems(context.Background(), items("Eiffel Tower", "Louvre Museum"), "Paris")

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "Eiffel Tower", points[0].Location)
	assert.Equal(t, 48.858, points[0].Lat)
	assert.Equal(t, "Louvre Museum", points[1].Location)
}

func TestResolveItemsSkipsEmptyLocations(t *testing.T) {
	searcher := &fakeSearcher{searchFunc: func(_ context.Context, _ string) (Coordinates, bool, error) {
		return Coordinates{Lat: 1, Lon: 2}, true, nil
	}}

	points, err := newTestResolver(searcher, NewCache()).
		ResolveItems(context.Background(), items("", "Eiffel Tower", ""), "Paris")

	require.NoError(t, err)
	assert.Len(t, points, 1)
	assert.Len(t, searcher.queries, 1, "empty locations make no requests")
}

func TestResolveItemsFallbackChain(t *testing.T) {
	searcher := &fakeSearcher{searchFunc: func(_ context.Context, query string) (Coordinates, bool, error) {
		if query == "Hotel Lutetia to Musée d'Orsay" {
			return Coordinates{Lat: 48.86, Lon: 2.326}, true, nil
		}
		return Coordinates{}, false, nil
	}}

	points, err := newTestResolver(searcher, NewCache()).
		ResolveItems(context.Background(), items("Hotel Lutetia to Musée d'Orsay"), "Paris")

	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, []string{
		"Musée d'Orsay, Paris",
		"Hotel Lutetia to Musée d'Orsay, Paris",
		"Hotel Lutetia to Musée d'Orsay",
	}, searcher.queries)
}

func TestResolveItemsOmitsUnresolvable(t *testing.T) {
	searcher := &fakeSearcher{searchFunc: func(_ context.Context, query string) (Coordinates, bool, error) {
		if query == "Eiffel Tower, Paris" {
			return Coordinates{Lat: 48.858, Lon: 2.294}, true, nil
		}
		return Coordinates{}, false, nil
	}}

	points, err := newTestResolver(searcher, NewCache()).
		ResolveItems(context.Background(), items("Atlantis", "Eiffel Tower"), "Paris")

	require.NoError(t, err)
	require.Len(t, points, 1, "unresolvable location is omitted, not fatal")
	assert.Equal(t, "Eiffel Tower", points[0].Location)
}

func TestResolveItemsTransportErrorFallsThrough(t *testing.T) {
	searcher := &fakeSearcher{searchFunc: func(_ context.Context, query string) (Coordinates, bool, error) {
		if query == "Eiffel Tower" {
			return Coordinates{Lat: 48.858, Lon: 2.294}, true, nil
		}
		return Coordinates{}, false, errors.New("503")
	}}

	points, err := newTestResolver(searcher, NewCache()).
		ResolveItems(context.Background(), items("Eiffel Tower"), "Paris")

	require.NoError(t, err)
	require.Len(t, points, 1, "a failing query falls through to the next in the chain")
}

func TestResolveItemsCacheHitsSkipRequests(t *testing.T) {
	searcher := &fakeSearcher{searchFunc: func(_ context.Context, _ string) (Coordinates, bool, error) {
		return Coordinates{Lat: 48.858, Lon: 2.294}, true, nil
	}}
	cache := NewCache()
	resolver := newTestResolver(searcher, cache)

	_, err := resolver.ResolveItems(context.Background(), items("Eiffel Tower"), "Paris")
	require.NoError(t, err)
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, 1, cache.Len())

	points, err := resolver.ResolveItems(context.Background(), items("Eiffel Tower"), "Paris")
	require.NoError(t, err)
	assert.Len(t, searcher.queries, 1, "second resolution is served from cache")
	require.Len(t, points, 1)
	assert.Equal(t, 48.858, points[0].Lat)
}

func TestResolveItemsCacheKeyIncludesDestination(t *testing.T) {
	searcher := &fakeSearcher{searchFunc: func(_ context.Context, _ string) (Coordinates, bool, error) {
		return Coordinates{Lat: 1, Lon: 2}, true, nil
	}}
	cache := NewCache()
	resolver := newTestResolver(searcher, cache)

	_, err := resolver.ResolveItems(context.Background(), items("Main Square"), "Kraków")
	require.NoError(t, err)
	_, err = resolver.ResolveItems(context.Background(), items("Main Square"), "Brussels")
	require.NoError(t, err)

	assert.Equal(t, 2, cache.Len(), "the same location in another city is a distinct entry")
}

func TestResolveItemsFailuresAreNotCached(t *testing.T) {
	available := false
	searcher := &fakeSearcher{searchFunc: func(_ context.Context, _ string) (Coordinates, bool, error) {
		if !available {
			return Coordinates{}, false, errors.New("temporarily unavailable")
		}
		return Coordinates{Lat: 1, Lon: 2}, true, nil
	}}
	cache := NewCache()
	resolver := newTestResolver(searcher, cache)

	points, err := resolver.ResolveItems(context.Background(), items("Eiffel Tower"), "Paris")
	require.NoError(t, err)
	assert.Empty(t, points)
	assert.Equal(t, 0, cache.Len())

	available = true
	points, err = resolver.ResolveItems(context.Background(), items("Eiffel Tower"), "Paris")
	require.NoError(t, err)
	assert.Len(t, points, 1, "a later attempt retries instead of replaying the failure")
}

func TestResolveItemsDelayAppliesToCacheHits(t *testing.T) {
	// The delay is applied after every item, cache hits included. Skipping it
	// for hits would be a harmless optimization, but the pipeline's timing is
	// kept independent of cache state on purpose.
	searcher := &fakeSearcher{searchFunc: func(_ context.Context, _ string) (Coordinates, bool, error) {
		return Coordinates{Lat: 1, Lon: 2}, true, nil
	}}
	cache := NewCache()
	resolver := NewResolver(searcher, cache)
	resolver.delay = 30 * time.Millisecond

	_, err := resolver.ResolveItems(context.Background(), items("Eiffel Tower"), "Paris")
	require.NoError(t, err)

	start := time.Now()
	_, err = resolver.ResolveItems(context.Background(), items("Eiffel Tower", "Eiffel Tower"), "Paris")
	require.NoError(t, err)

	assert.Len(t, searcher.queries, 1, "both items hit the cache")
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestResolveItemsCancellationDiscardsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	searcher := &fakeSearcher{searchFunc: func(_ context.Context, query string) (Coordinates, bool, error) {
		if query == "Louvre Museum, Paris" {
			cancel()
		}
		return Coordinates{Lat: 1, Lon: 2}, true, nil
	}}

	points, err := newTestResolver(searcher, NewCache()).
		ResolveItems(ctx, items("Eiffel Tower", "Louvre Museum", "Panthéon"), "Paris")

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, points, "partial results are discarded on cancellation")
}
