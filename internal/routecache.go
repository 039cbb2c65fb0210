package internal

import (
	"time"
)

// Route is a resolved origin/destination pair, already translated to IATA
// airport codes where the airport mapping allows it.
type Route struct {
	Origin      string
	Destination string
}

// routeCacheEntry holds a resolved route together with its resolution time.
type routeCacheEntry struct {
	route      Route
	resolvedAt int64 // unix seconds
}

// RouteCache maps aircraft identities (ICAO24 hex) to previously resolved
// routes. Expired entries are never purged, only treated as absent on
// lookup. The cache may grow for the lifetime of the process; with one
// metered lookup per cycle that is a handful of entries per hour at most.
type RouteCache struct {
	entries map[string]routeCacheEntry
}

func NewRouteCache() *RouteCache {
	return &RouteCache{
		entries: make(map[string]routeCacheEntry),
	}
}

// Lookup returns the cached route for the given identity if it was resolved
// less than ttl ago. Stale or absent entries report a miss.
func (cache *RouteCache) Lookup(icao24 string, now time.Time, ttl time.Duration) (Route, bool) {
	entry, exists := cache.entries[icao24]
	if !exists {
		return Route{}, false
	}

	if now.Unix() >= entry.resolvedAt+int64(ttl.Seconds()) {
		return Route{}, false
	}

	return entry.route, true
}

// Store records a resolved route for the given identity, overwriting any
// prior entry. Most recent resolution wins.
func (cache *RouteCache) Store(icao24 string, route Route, now time.Time) {
	cache.entries[icao24] = routeCacheEntry{
		route:      route,
		resolvedAt: now.Unix(),
	}
}
