package chart

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	cacheSize     = 64
	cacheDuration = 5 * time.Minute
)

// newCache holds rendered charts per ticker. Entries expire after ttl and
// the least recently used one is evicted once size is reached.
func newCache(size int, ttl time.Duration) *expirable.LRU[string, []byte] {
	return expirable.NewLRU[string, []byte](size, nil, ttl)
}
