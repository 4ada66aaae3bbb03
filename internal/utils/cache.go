package utils

import (
	"canarycast/internal/cache"
	"canarycast/internal/config"
	"canarycast/internal/report"
	"canarycast/internal/store"
)

// NewCache opens the persistent store and wires up a cache with the default
// reporter and environment-driven settings. The constructor's startup sweep
// runs before this returns. Callers own closing the returned store.
func NewCache() (*cache.Cache, store.KV, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, nil, err
	}

	kv, err := store.OpenSQLite(settings)
	if err != nil {
		return nil, nil, err
	}

	c := cache.New(kv,
		cache.WithReporter(report.NewLogReporter(nil)),
		cache.WithDefaultTTL(settings.EntryTTL),
	)
	return c, kv, nil
}
