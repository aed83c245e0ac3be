package cache

import "time"

// ListCache is the read-side cache consumed by the API layer for
// vocabulary lists (categories, sources, authors). A nil value disables
// caching entirely.
type ListCache interface {
	GetList(key string) ([]string, bool, error)
	SetList(key string, values []string, ttl time.Duration) error
	Health() map[string]interface{}
}
