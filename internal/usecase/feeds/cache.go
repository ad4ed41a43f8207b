package feeds

import (
	"sync"
	"time"
)

// feedCache memoizes the two keyless bulk feeds for a short TTL. The
// URLhaus dump and the KEV catalog change on the order of hours, so
// refetching megabytes per dashboard poll would only burn quota.
// Per-request lookup results are never cached.
type feedCache struct {
	mu  sync.RWMutex
	ttl time.Duration

	threatList   []ThreatListEntry
	threatListAt time.Time

	vulnList   []VulnListEntry
	vulnListAt time.Time
}

func newFeedCache(ttl time.Duration) *feedCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &feedCache{ttl: ttl}
}

func (c *feedCache) getThreatList() ([]ThreatListEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.threatList == nil || time.Since(c.threatListAt) > c.ttl {
		return nil, false
	}
	return c.threatList, true
}

func (c *feedCache) setThreatList(list []ThreatListEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.threatList = list
	c.threatListAt = time.Now()
}

func (c *feedCache) getVulnList() ([]VulnListEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.vulnList == nil || time.Since(c.vulnListAt) > c.ttl {
		return nil, false
	}
	return c.vulnList, true
}

func (c *feedCache) setVulnList(list []VulnListEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.vulnList = list
	c.vulnListAt = time.Now()
}
