package features

import (
	"time"

	"canarycast/internal/cache"
	"canarycast/internal/config"
)

// Alert is one active weather warning for an island
type Alert struct {
	ID          string    `json:"id"`
	Event       string    `json:"event"` // wind, calima, storm, ...
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Until       time.Time `json:"until"`
}

// AlertFeed caches active warnings with a short TTL so stale alerts
// never linger in the UI.
type AlertFeed struct {
	c cache.Service
}

func NewAlertFeed(c cache.Service) *AlertFeed {
	return &AlertFeed{c: c}
}

// Save stores the active warnings for an island
func (a *AlertFeed) Save(island string, alerts []Alert) bool {
	return a.c.Set(cache.Alerts, islandKey(island), alerts, config.AlertsTTL)
}

// Active returns the cached warnings for an island, if still fresh
func (a *AlertFeed) Active(island string) ([]Alert, bool) {
	var alerts []Alert
	ok := a.c.Get(cache.Alerts, islandKey(island), &alerts)
	return alerts, ok
}

// Clear drops all cached warnings, e.g. after the user acknowledges them
func (a *AlertFeed) Clear() bool {
	return a.c.ClearNamespace(cache.Alerts)
}
