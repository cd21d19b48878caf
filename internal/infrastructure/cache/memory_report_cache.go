package cache

import (
	"context"
	"sync"
	"time"

	appaccounting "github.com/erp/ledger/internal/application/accounting"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryReportCache implements the report cache in process memory. State
// is not shared across instances, so it fits single-node deployments and
// tests.
type MemoryReportCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryReportCache creates an in-memory report cache
func NewMemoryReportCache() *MemoryReportCache {
	return &MemoryReportCache{
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached payload for a key, expiring lazily
func (c *MemoryReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores a payload under a key with a TTL
func (c *MemoryReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Flush drops every cached report
func (c *MemoryReportCache) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}

var _ appaccounting.ReportCache = (*MemoryReportCache)(nil)
