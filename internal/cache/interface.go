package cache

import (
	"encoding/json"
	"time"
)

// Service defines the interface for cache operations
type Service interface {
	Set(n Namespace, key string, value any, ttl time.Duration) bool
	Get(n Namespace, key string, out any) bool
	Has(n Namespace, key string) bool
	Remove(n Namespace, key string) bool
	ClearNamespace(n Namespace) bool
	Age(n Namespace, key string) (time.Duration, bool)
	Update(n Namespace, key string, partial map[string]any) bool
	NamespaceItems(n Namespace) map[string]json.RawMessage
	ClearExpired() int
}

// Ensure Cache implements Service
var _ Service = (*Cache)(nil)
