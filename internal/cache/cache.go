package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"canarycast/internal/config"
	"canarycast/internal/errors"
	"canarycast/internal/report"
	"canarycast/internal/store"
)

// Entry is the persisted envelope around every cached value. The payload
// stays raw JSON; only the envelope is interpreted by the cache layer.
type Entry struct {
	Value         json.RawMessage `json:"value"`
	Timestamp     int64           `json:"timestamp"` // epoch milliseconds at write time
	TTL           int64           `json:"ttl"`       // validity window in milliseconds
	SchemaVersion string          `json:"schemaVersion"`
}

// Expired reports whether the entry's TTL has elapsed at the given time.
// Reads never refresh Timestamp, so expiry is absolute from the write.
func (e *Entry) Expired(now time.Time) bool {
	return now.UnixMilli()-e.Timestamp > e.TTL
}

// Stale reports whether the entry was written by a different build of the
// cache format. A single constant covers all namespaces: bumping it
// invalidates everything previously persisted.
func (e *Entry) Stale(version string) bool {
	return e.SchemaVersion != version
}

// Cache is a namespaced, TTL-qualified key-value cache over a persistent
// store. Every public operation is total: it returns a value or a bool and
// never lets a storage failure escape as an error. Failures are classified
// and handed to the reporter instead.
type Cache struct {
	kv         store.KV
	reporter   report.Reporter
	now        func() time.Time
	version    string
	defaultTTL time.Duration
}

// Option configures a Cache
type Option func(*Cache)

// WithReporter routes classified errors to r instead of discarding them
func WithReporter(r report.Reporter) Option {
	return func(c *Cache) { c.reporter = r }
}

// WithClock substitutes the time source; tests use this to advance expiry
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithSchemaVersion overrides the build's schema version constant
func WithSchemaVersion(v string) Option {
	return func(c *Cache) { c.version = v }
}

// WithDefaultTTL overrides the TTL applied when a caller passes none
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// New creates a cache over the given store and runs the expiration sweep
// once, so stale and corrupt entries from prior runs never reach callers.
func New(kv store.KV, opts ...Option) *Cache {
	c := &Cache{
		kv:         kv,
		reporter:   report.Nop{},
		now:        time.Now,
		version:    config.SchemaVersion,
		defaultTTL: config.DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.ClearExpired()
	return c
}

// Set serializes value and writes it under (namespace, key), overwriting
// any prior entry and restarting its expiry clock. A non-positive ttl
// selects the default. Returns false on quota or serialization failure.
func (c *Cache) Set(n Namespace, key string, value any, ttl time.Duration) bool {
	if !c.checkArgs(n, key) {
		return false
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.reporter.Report(errors.WrapSerialization(err, ComposeKey(n, key)), "set")
		return false
	}

	entry := Entry{
		Value:         raw,
		Timestamp:     c.now().UnixMilli(),
		TTL:           ttl.Milliseconds(),
		SchemaVersion: c.version,
	}

	data, err := json.Marshal(&entry)
	if err != nil {
		c.reporter.Report(errors.WrapSerialization(err, ComposeKey(n, key)), "set")
		return false
	}

	composed := ComposeKey(n, key)
	if err := c.kv.SetItem(composed, string(data)); err != nil {
		c.reporter.Report(errors.ClassifyStorage(err, "set", composed), "")
		return false
	}
	return true
}

// Get reads the entry at (namespace, key) and decodes its value into out.
// Absent, expired, version-stale, and corrupt entries all read as a miss,
// and anything invalid found along the way is purged so it never resurfaces.
func (c *Cache) Get(n Namespace, key string, out any) bool {
	if !c.checkArgs(n, key) {
		return false
	}

	entry, ok := c.load(n, key)
	if !ok {
		return false
	}
	if out == nil {
		return true
	}

	if err := json.Unmarshal(entry.Value, out); err != nil {
		// Payload does not match the expected shape: same treatment as
		// corrupt text, delete and miss.
		composed := ComposeKey(n, key)
		c.purge(composed)
		c.reporter.Report(errors.WrapCorruption(err, composed), "get")
		return false
	}
	return true
}

// Has runs Get's validity test without decoding the payload, purging
// invalid entries the same way.
func (c *Cache) Has(n Namespace, key string) bool {
	if !c.checkArgs(n, key) {
		return false
	}
	_, ok := c.load(n, key)
	return ok
}

// Remove deletes an entry. Deleting an absent key succeeds; only an
// underlying store failure returns false.
func (c *Cache) Remove(n Namespace, key string) bool {
	if !c.checkArgs(n, key) {
		return false
	}

	composed := ComposeKey(n, key)
	if err := c.kv.RemoveItem(composed); err != nil {
		c.reporter.Report(errors.ClassifyStorage(err, "remove", composed), "")
		return false
	}
	return true
}

// ClearNamespace deletes every entry under the namespace's prefix. The
// store's key space is not indexed by namespace, so this is an
// enumerate-then-delete pass; individual delete failures are reported and
// skipped, and the call succeeds as long as enumeration did.
func (c *Cache) ClearNamespace(n Namespace) bool {
	if !n.Valid() {
		c.reporter.Report(errors.WrapValidationError(fmt.Errorf("unknown namespace"), string(n)), "clear")
		return false
	}

	keys, err := c.kv.Keys()
	if err != nil {
		c.reporter.Report(errors.ClassifyStorage(err, "clear", string(n)), "")
		return false
	}

	prefix := n.prefix()
	for _, key := range keys {
		if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		if err := c.kv.RemoveItem(key); err != nil {
			c.reporter.Report(errors.ClassifyStorage(err, "clear", key), "")
			continue
		}
	}
	return true
}

// Age returns how long ago the entry was written, without validity
// checking it. Used for "last updated" displays; an expired entry still
// has an age until something purges it.
func (c *Cache) Age(n Namespace, key string) (time.Duration, bool) {
	if !n.Valid() || key == "" {
		return 0, false
	}

	raw, ok, err := c.kv.GetItem(ComposeKey(n, key))
	if err != nil || !ok {
		return 0, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return 0, false
	}

	return time.Duration(c.now().UnixMilli()-entry.Timestamp) * time.Millisecond, true
}

// Update shallow-merges partial into an existing entry's object value,
// keeping the original timestamp and TTL so the expiration horizon does
// not move. An update never refreshes freshness; only Set does. Returns
// false when the entry is absent, invalid, or not a JSON object.
func (c *Cache) Update(n Namespace, key string, partial map[string]any) bool {
	if !c.checkArgs(n, key) {
		return false
	}

	entry, ok := c.load(n, key)
	if !ok {
		return false
	}

	var current map[string]any
	if err := json.Unmarshal(entry.Value, &current); err != nil {
		c.reporter.Report(errors.WrapValidationError(fmt.Errorf("cached value is not an object"), ComposeKey(n, key)), "update")
		return false
	}

	for k, v := range partial {
		current[k] = v
	}

	raw, err := json.Marshal(current)
	if err != nil {
		c.reporter.Report(errors.WrapSerialization(err, ComposeKey(n, key)), "update")
		return false
	}
	entry.Value = raw

	data, err := json.Marshal(entry)
	if err != nil {
		c.reporter.Report(errors.WrapSerialization(err, ComposeKey(n, key)), "update")
		return false
	}

	composed := ComposeKey(n, key)
	if err := c.kv.SetItem(composed, string(data)); err != nil {
		c.reporter.Report(errors.ClassifyStorage(err, "update", composed), "")
		return false
	}
	return true
}

// NamespaceItems returns every currently valid entry in the namespace as
// raw values keyed by user key. Invalid entries found along the way are
// skipped, not purged; the sweep handles those.
func (c *Cache) NamespaceItems(n Namespace) map[string]json.RawMessage {
	items := make(map[string]json.RawMessage)
	if !n.Valid() {
		return items
	}

	keys, err := c.kv.Keys()
	if err != nil {
		c.reporter.Report(errors.ClassifyStorage(err, "list", string(n)), "")
		return items
	}

	now := c.now()
	prefix := n.prefix()
	for _, key := range keys {
		if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
			continue
		}

		raw, ok, err := c.kv.GetItem(key)
		if err != nil || !ok {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		if entry.Stale(c.version) || entry.Expired(now) {
			continue
		}

		items[key[len(prefix):]] = entry.Value
	}
	return items
}

// Inspect returns the raw envelope at (namespace, key) without validity
// checking or purging. Debug and UI surface only.
func (c *Cache) Inspect(n Namespace, key string) (*Entry, bool) {
	if !n.Valid() || key == "" {
		return nil, false
	}

	raw, ok, err := c.kv.GetItem(ComposeKey(n, key))
	if err != nil || !ok {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

// load reads and validates an entry, purging it when the stored text does
// not parse, the schema version mismatches, or the TTL has elapsed.
func (c *Cache) load(n Namespace, key string) (*Entry, bool) {
	composed := ComposeKey(n, key)

	raw, ok, err := c.kv.GetItem(composed)
	if err != nil {
		c.reporter.Report(errors.ClassifyStorage(err, "get", composed), "")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.purge(composed)
		c.reporter.Report(errors.WrapCorruption(err, composed), "get")
		return nil, false
	}

	if entry.Stale(c.version) || entry.Expired(c.now()) {
		c.purge(composed)
		return nil, false
	}

	return &entry, true
}

// purge deletes a known-bad entry; a failed purge is reported but does not
// change the caller's miss result.
func (c *Cache) purge(composed string) {
	if err := c.kv.RemoveItem(composed); err != nil {
		c.reporter.Report(errors.ClassifyStorage(err, "purge", composed), "")
	}
}

func (c *Cache) checkArgs(n Namespace, key string) bool {
	if !n.Valid() {
		c.reporter.Report(errors.WrapValidationError(fmt.Errorf("unknown namespace"), string(n)), "")
		return false
	}
	if key == "" {
		c.reporter.Report(errors.WrapValidationError(fmt.Errorf("key cannot be empty"), string(n)), "")
		return false
	}
	return true
}
