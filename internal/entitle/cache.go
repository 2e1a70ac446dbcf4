package entitle

import (
	"sync"
	"time"

	"newsroom/internal/models"
)

type cacheEntry struct {
	company *models.Company
	ts      time.Time
}

// companyCache keeps recently resolved companies for a short window so a
// burst of requests does not hit the company store repeatedly. Entries
// expire by TTL only; Invalidate exists for tests and admin updates.
type companyCache struct {
	mu    sync.Mutex
	items map[string]cacheEntry
	ttl   time.Duration
}

func newCompanyCache(ttl time.Duration) *companyCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &companyCache{
		items: make(map[string]cacheEntry),
		ttl:   ttl,
	}
}

// get returns the cached company when the entry is inside the ttl window.
func (c *companyCache) get(companyID string) (*models.Company, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[companyID]; ok {
		if now.Sub(entry.ts) <= c.ttl {
			return entry.company, true
		}
		delete(c.items, companyID)
	}
	return nil, false
}

func (c *companyCache) set(companyID string, company *models.Company) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[companyID] = cacheEntry{company: company, ts: time.Now()}
}

func (c *companyCache) invalidate(companyID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, companyID)
}
