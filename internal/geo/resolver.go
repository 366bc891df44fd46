package geo

import (
	"context"
	"time"

	"precisely/internal/model"
)

// Searcher is the part of Client the resolver needs.
type Searcher interface {
	Search(ctx context.Context, query string) (Coordinates, bool, error)
}

// Cache holds successful resolutions for the lifetime of a session. Failures
// are never cached, so a later attempt can succeed once the service's
// transient issue clears. The cache is explicitly constructed and injected —
// there is no package-level instance.
type Cache struct {
	entries map[cacheKey]Coordinates
}

type cacheKey struct {
	location    string
	destination string
}

// NewCache creates an empty geocode cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]Coordinates)}
}

func (c *Cache) get(location, destination string) (Coordinates, bool) {
	coords, ok := c.entries[cacheKey{location, destination}]
	return coords, ok
}

func (c *Cache) put(location, destination string, coords Coordinates) {
	c.entries[cacheKey{location, destination}] = coords
}

// Len returns the number of cached resolutions.
func (c *Cache) Len() int {
	return len(c.entries)
}

// requestDelay is the pause after each item. Nominatim's usage policy allows
// one request per second; 1.1s leaves headroom.
const requestDelay = 1100 * time.Millisecond

// Resolver turns itinerary locations into map points, one request at a time.
type Resolver struct {
	searcher Searcher
	cache    *Cache
	delay    time.Duration
}

// NewResolver creates a resolver using the given searcher and cache.
func NewResolver(searcher Searcher, cache *Cache) *Resolver {
	return &Resolver{searcher: searcher, cache: cache, delay: requestDelay}
}

// ResolveItems resolves every item with a non-empty location, preserving
// input order. Items that cannot be resolved through the full query fallback
// chain are omitted; a per-location failure never aborts the pipeline.
//
// Processing is strictly sequential with a fixed delay after every item,
// cache hits included, to honor the geocoding service's rate limit. On
// cancellation the iteration stops after the current item and the partial
// result is discarded.
func (r *Resolver) ResolveItems(ctx context.Context, items []model.ItineraryItem, destination string) ([]model.MapPoint, error) {
	var points []model.MapPoint

	for _, item := range items {
		if item.Location == "" {
			continue
		}

		coords, ok := r.resolveOne(ctx, item.Location, destination)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ok {
			points = append(points, model.MapPoint{
				Title:    item.Title,
				Location: item.Location,
				Lat:      coords.Lat,
				Lon:      coords.Lon,
			})
		}

		if err := sleepCtx(ctx, r.delay); err != nil {
			return nil, err
		}
	}

	return points, nil
}

// resolveOne tries the cache, then each fallback query in order.
func (r *Resolver) resolveOne(ctx context.Context, location, destination string) (Coordinates, bool) {
	if coords, ok := r.cache.get(location, destination); ok {
		return coords, true
	}

	for _, query := range queryChain(location, destination) {
		if ctx.Err() != nil {
			return Coordinates{}, false
		}
		coords, ok, err := r.searcher.Search(ctx, query)
		if err != nil || !ok {
			continue
		}
		r.cache.put(location, destination, coords)
		return coords, true
	}
	return Coordinates{}, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
