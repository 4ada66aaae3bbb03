package cache

import (
	"encoding/json"
	"strings"

	"canarycast/internal/config"
	"canarycast/internal/errors"
)

// ClearExpired sweeps the entire persisted key space and deletes every
// cache entry that is schema-stale, TTL-expired, or unreadable, plus any
// key under the cache prefix that does not parse as (namespace, key).
// Per-entry failures are isolated so one bad row never aborts the sweep.
// Runs once from New and on demand from the maintenance CLI; idempotent.
// Returns the number of entries removed.
func (c *Cache) ClearExpired() int {
	keys, err := c.kv.Keys()
	if err != nil {
		c.reporter.Report(errors.ClassifyStorage(err, "sweep", ""), "")
		return 0
	}

	now := c.now()
	removed := 0

	for _, key := range keys {
		// Keys outside the cache prefix belong to someone else
		if !strings.HasPrefix(key, config.CachePrefix) {
			continue
		}

		if _, _, ok := ParseKey(key); !ok {
			// Junk under our prefix: a namespace outside the closed set is
			// never recognized, so the entry can only rot.
			if c.removeSwept(key) {
				removed++
			}
			continue
		}

		raw, ok, err := c.kv.GetItem(key)
		if err != nil {
			c.reporter.Report(errors.ClassifyStorage(err, "sweep", key), "")
			continue
		}
		if !ok {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			c.reporter.Report(errors.WrapCorruption(err, key), "sweep")
			if c.removeSwept(key) {
				removed++
			}
			continue
		}

		if entry.Stale(c.version) || entry.Expired(now) {
			if c.removeSwept(key) {
				removed++
			}
		}
	}

	return removed
}

func (c *Cache) removeSwept(key string) bool {
	if err := c.kv.RemoveItem(key); err != nil {
		c.reporter.Report(errors.ClassifyStorage(err, "sweep", key), "")
		return false
	}
	return true
}
