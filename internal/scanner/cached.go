package scanner

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/vk/propreg/internal/decl"
	"github.com/vk/propreg/internal/model"
)

const (
	DefaultExpiration      = 30 * time.Minute
	DefaultCleanupInterval = time.Hour
)

// Cached remembers scan results keyed by unit fingerprint, so repeated builds
// in watch mode skip units that did not change.
type Cached struct {
	inner Interface
	cache *gocache.Cache
}

// NewCached wraps inner with an in-memory cache.
func NewCached(inner Interface, expiration, cleanupInterval time.Duration) *Cached {
	return &Cached{
		inner: inner,
		cache: gocache.New(expiration, cleanupInterval),
	}
}

// Scan returns the cached model for an unchanged unit, scanning otherwise.
func (c *Cached) Scan(unit *decl.Unit) *model.CompileUnit {
	key := unit.Fingerprint()
	if v, found := c.cache.Get(key); found {
		if cu, ok := v.(*model.CompileUnit); ok {
			return cu
		}
	}
	cu := c.inner.Scan(unit)
	c.cache.SetDefault(key, cu)
	return cu
}

// Len returns the number of cached models.
func (c *Cached) Len() int { return c.cache.ItemCount() }

// Flush drops every cached model.
func (c *Cached) Flush() { c.cache.Flush() }
