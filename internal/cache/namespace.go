package cache

import (
	"strings"

	"canarycast/internal/config"
)

// Namespace partitions the shared key space. The set is closed: features
// must pick one of these rather than inventing ad hoc storage keys, which
// is what keeps unrelated caches from colliding in the one physical store.
//
// Namespace tokens never contain '_', the delimiter between namespace and
// user key, so composed keys parse unambiguously.
type Namespace string

const (
	Weather     Namespace = "weather"
	Locations   Namespace = "locations"
	Settings    Namespace = "settings"
	POI         Namespace = "poi"
	AIInsights  Namespace = "ai-insights"
	Alerts      Namespace = "alerts"
	UIState     Namespace = "ui-state"
	WeatherData Namespace = "weather-data"
	Activities  Namespace = "activities"
)

// Namespaces returns every legal cache partition, in display order
func Namespaces() []Namespace {
	return []Namespace{
		Weather,
		WeatherData,
		Locations,
		POI,
		AIInsights,
		Alerts,
		Activities,
		Settings,
		UIState,
	}
}

// Valid reports whether n is a member of the closed namespace set
func (n Namespace) Valid() bool {
	switch n {
	case Weather, Locations, Settings, POI, AIInsights, Alerts, UIState, WeatherData, Activities:
		return true
	}
	return false
}

// prefix is the composed-key prefix scoping bulk operations to n
func (n Namespace) prefix() string {
	return config.CachePrefix + string(n) + "_"
}

// ComposeKey builds the physical store key for (namespace, key). Distinct
// pairs never collide: the prefix is fixed, namespace tokens are
// delimiter-free, and the first '_' after the namespace ends it.
func ComposeKey(n Namespace, key string) string {
	return n.prefix() + key
}

// ParseKey splits a physical store key back into its namespace and user
// key. Returns false for keys outside the cache prefix, under an unknown
// namespace, or with an empty user key.
func ParseKey(composed string) (Namespace, string, bool) {
	rest, ok := strings.CutPrefix(composed, config.CachePrefix)
	if !ok {
		return "", "", false
	}

	i := strings.Index(rest, "_")
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}

	n := Namespace(rest[:i])
	if !n.Valid() {
		return "", "", false
	}
	return n, rest[i+1:], true
}
