package store

// KV is the synchronous key-value primitive the cache layer runs on. It
// mirrors the web storage contract the app was built against: string keys,
// string values, writes that can fail when the store is full, and full key
// enumeration for bulk sweeps.
type KV interface {
	// GetItem returns the stored value and whether the key was present.
	GetItem(key string) (string, bool, error)

	// SetItem writes a value, overwriting any prior one. Returns an error
	// wrapping errors.ErrQuotaExceeded when the store's byte quota is hit.
	SetItem(key, value string) error

	// RemoveItem deletes a key. Removing an absent key is not an error.
	RemoveItem(key string) error

	// Keys lists every key currently stored, across all owners of the store.
	Keys() ([]string, error)

	Close() error
}

// Sizer is implemented by stores that can report their physical size
type Sizer interface {
	Size() (int64, error)
}
