package secrets

import (
	"sync"
	"time"

	"github.com/kevin07696/cardvault-gateway/internal/domain/ports"
	"github.com/kevin07696/cardvault-gateway/pkg/timeutil"
)

// secretCache is an in-memory TTL cache shared by the remote backends
type secretCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	enabled bool
	ttl     time.Duration
	now     timeutil.Clock
}

type cacheEntry struct {
	secret    *ports.Secret
	expiresAt time.Time
}

func newSecretCache(enabled bool, ttl time.Duration) *secretCache {
	return &secretCache{
		entries: make(map[string]cacheEntry),
		enabled: enabled,
		ttl:     ttl,
		now:     timeutil.Now,
	}
}

func (c *secretCache) get(key string) *ports.Secret {
	if !c.enabled {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil
	}
	return entry.secret
}

func (c *secretCache) set(key string, secret *ports.Secret) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		secret:    secret,
		expiresAt: c.now().Add(c.ttl),
	}
}
