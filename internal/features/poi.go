package features

import (
	"canarycast/internal/cache"
	"canarycast/internal/config"
)

// POI is one recommended point of interest near a forecast location
type POI struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"` // beach, hiking, viewpoint, ...
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	DistanceKm float64 `json:"distanceKm"`
}

// Places caches POI recommendation lists per island and category
type Places struct {
	c cache.Service
}

func NewPlaces(c cache.Service) *Places {
	return &Places{c: c}
}

// SaveNearby stores a recommendation list for an island and category
func (p *Places) SaveNearby(island, category string, pois []POI) bool {
	return p.c.Set(cache.POI, poiKey(island, category), pois, config.POITTL)
}

// Nearby returns the cached recommendations, if still fresh
func (p *Places) Nearby(island, category string) ([]POI, bool) {
	var pois []POI
	ok := p.c.Get(cache.POI, poiKey(island, category), &pois)
	return pois, ok
}

// Forget drops one island+category list, forcing a refetch
func (p *Places) Forget(island, category string) bool {
	return p.c.Remove(cache.POI, poiKey(island, category))
}

func poiKey(island, category string) string {
	return islandKey(island) + "_" + islandKey(category)
}
