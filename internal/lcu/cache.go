package lcu

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"riftwatch/internal/metrics"
)

// boundedCache is a TTL cache with an insertion-order capacity bound. Entries
// past their TTL read as absent; once the entry count exceeds max, the
// oldest-inserted entries are dropped first. Entries are immutable after
// insertion, so a read racing an eviction sweep is at worst a miss.
type boundedCache struct {
	name  string
	inner *cache.Cache
	max   int
	seq   atomic.Int64
}

type boundedEntry struct {
	seq   int64
	value any
}

func newBoundedCache(name string, ttl time.Duration, max int) *boundedCache {
	return &boundedCache{
		name:  name,
		inner: cache.New(ttl, ttl),
		max:   max,
	}
}

func (b *boundedCache) Get(key string) (any, bool) {
	item, ok := b.inner.Get(key)
	if !ok {
		metrics.CacheOps.WithLabelValues(b.name, "miss").Inc()
		return nil, false
	}
	metrics.CacheOps.WithLabelValues(b.name, "hit").Inc()
	return item.(boundedEntry).value, true
}

func (b *boundedCache) Put(key string, value any) {
	b.inner.Set(key, boundedEntry{seq: b.seq.Add(1), value: value}, cache.DefaultExpiration)
	b.prune()
}

// prune is the inline capacity sweep run on every insert; TTL expiry is
// handled by the cache itself.
func (b *boundedCache) prune() {
	items := b.inner.Items()
	over := len(items) - b.max
	if over <= 0 {
		return
	}
	type aged struct {
		key string
		seq int64
	}
	all := make([]aged, 0, len(items))
	for key, item := range items {
		entry, ok := item.Object.(boundedEntry)
		if !ok {
			continue
		}
		all = append(all, aged{key: key, seq: entry.seq})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })
	for i := 0; i < over && i < len(all); i++ {
		b.inner.Delete(all[i].key)
		metrics.CacheOps.WithLabelValues(b.name, "evict").Inc()
	}
}

func (b *boundedCache) Len() int {
	return b.inner.ItemCount()
}
