package config

import "time"

// Cache envelope constants. CachePrefix distinguishes cache entries from any
// other state sharing the store; SchemaVersion is stamped into every entry
// and bumped whenever any cached shape changes, which invalidates all
// previously persisted entries across every namespace.
const (
	CachePrefix   = "cc_cache_"
	SchemaVersion = "1.2.0"
)

// DefaultTTL applies when a caller writes an entry without an explicit TTL
const DefaultTTL = time.Hour

// Feature TTL configuration
const (
	WeatherTTL   = 30 * time.Minute   // Current conditions go stale quickly
	ForecastTTL  = time.Hour          // Daily forecasts refresh hourly upstream
	POITTL       = 24 * time.Hour     // Points of interest rarely change
	InsightsTTL  = 12 * time.Hour     // AI narratives are regenerated twice a day
	AlertsTTL    = 15 * time.Minute   // Weather alerts must not linger
	LocationsTTL = 7 * 24 * time.Hour // Saved island list is near-static
)

// UI configuration
const (
	DefaultTableHeight = 20
	MinTableHeight     = 5

	// Table column widths
	KeyColumnWidth  = 32
	AgeColumnWidth  = 14
	TTLColumnWidth  = 10
	SizeColumnWidth = 10
)
