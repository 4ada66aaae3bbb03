package store

import (
	"fmt"
	"sort"
	"sync"

	"canarycast/internal/errors"
)

// MemoryStore is a map-backed KV with the same quota semantics as the
// sqlite store. It backs tests and the read-only fallback paths.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string]string
	quota   int64
	failure error
}

// NewMemoryStore creates an empty in-memory store with no quota
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]string),
	}
}

// SetQuota caps total stored bytes; zero disables the quota
func (m *MemoryStore) SetQuota(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quota = n
}

// FailWith makes every subsequent operation return err; nil restores
// normal behavior. Used to drive the generic I/O failure paths in tests.
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failure = err
}

func (m *MemoryStore) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failure != nil {
		return "", false, m.failure
	}
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MemoryStore) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failure != nil {
		return m.failure
	}

	if m.quota > 0 {
		used := int64(0)
		for k, v := range m.data {
			if k == key {
				continue
			}
			used += int64(len(k) + len(v))
		}
		if used+int64(len(key)+len(value)) > m.quota {
			return fmt.Errorf("write %q: %w", key, errors.ErrQuotaExceeded)
		}
	}

	m.data[key] = value
	return nil
}

func (m *MemoryStore) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failure != nil {
		return m.failure
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failure != nil {
		return nil, m.failure
	}

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Size reports total stored bytes, mirroring the quota accounting
func (m *MemoryStore) Size() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failure != nil {
		return 0, m.failure
	}

	var n int64
	for k, v := range m.data {
		n += int64(len(k) + len(v))
	}
	return n, nil
}

func (m *MemoryStore) Close() error {
	return nil
}

var (
	_ KV    = (*MemoryStore)(nil)
	_ Sizer = (*MemoryStore)(nil)
)
