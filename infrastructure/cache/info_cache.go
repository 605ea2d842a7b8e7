package cache

import (
	"sync"
	"time"

	"media-gateway/domain/model"
	"media-gateway/domain/repository"
)

type entry struct {
	info      model.MediaInfo
	createdAt time.Time
}

// InfoCache memoizes resolved media metadata per source URL. Entries expire
// after the TTL and are evicted lazily by the Get that observes them; there
// is no background sweep and no capacity bound. Concurrent misses for the
// same URL may each trigger their own resolution.
type InfoCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

func NewInfoCache(ttl time.Duration) repository.IInfoCache {
	return &InfoCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *InfoCache) Get(url string) (model.MediaInfo, bool) {
	c.mu.RLock()
	e, ok := c.entries[url]
	c.mu.RUnlock()
	if !ok {
		return model.MediaInfo{}, false
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		c.mu.Lock()
		// A concurrent Set may have refreshed the entry; only drop the
		// stale one we observed.
		if cur, exists := c.entries[url]; exists && cur.createdAt.Equal(e.createdAt) {
			delete(c.entries, url)
		}
		c.mu.Unlock()
		return model.MediaInfo{}, false
	}
	return e.info, true
}

func (c *InfoCache) Set(url string, info model.MediaInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = entry{info: info, createdAt: c.now()}
}
