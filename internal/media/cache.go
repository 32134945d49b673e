package media

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"portfolio-gallery/internal/metrics"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// cacheEntry is one memoized thumbnail together with the source stamp it was
// built from. The encoded JPEG is produced lazily, at most once.
type cacheEntry struct {
	img     image.Image
	modTime time.Time
	size    int64

	encodeOnce sync.Once
	encoded    []byte
	encodeErr  error
}

// weight is the memory held by the decoded canvas.
func (e *cacheEntry) weight() int64 {
	if nrgba, ok := e.img.(*image.NRGBA); ok {
		return int64(len(nrgba.Pix))
	}
	b := e.img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}

// memoCache is an LRU of normalized thumbnails keyed by absolute path,
// bounded both by entry count and by the bytes held in canvases. Concurrent
// loads of the same key share one decode.
type memoCache struct {
	lru      *lru.Cache[string, *cacheEntry]
	group    singleflight.Group
	maxBytes int64
	bytes    atomic.Int64
	// gen changes on every removal. A load that overlaps one is returned to
	// its callers but not stored.
	gen atomic.Uint64
}

func newMemoCache(size int, maxBytes int64) (*memoCache, error) {
	c := &memoCache{maxBytes: maxBytes}
	l, err := lru.NewWithEvict[string, *cacheEntry](size, func(_ string, e *cacheEntry) {
		c.bytes.Add(-e.weight())
	})
	if err != nil {
		return nil, err
	}
	c.lru = l
	return c, nil
}

func (c *memoCache) get(key string) (*cacheEntry, bool) {
	return c.lru.Get(key)
}

// load returns the cached entry for key or builds it with fn. Failures are
// not cached; the next call tries again.
func (c *memoCache) load(key string, fn func() (*cacheEntry, error)) (*cacheEntry, error) {
	v, err, _ := c.group.Do(key, func() (any, error) {
		if e, ok := c.lru.Get(key); ok {
			return e, nil
		}
		gen := c.gen.Load()
		e, err := fn()
		if err != nil {
			return nil, err
		}
		if c.gen.Load() == gen {
			c.store(key, e)
		}
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*cacheEntry), nil
}

func (c *memoCache) store(key string, e *cacheEntry) {
	// replacing in place would skip the eviction callback
	if _, ok := c.lru.Peek(key); ok {
		c.lru.Remove(key)
	}
	c.bytes.Add(e.weight())
	if evicted := c.lru.Add(key, e); evicted {
		metrics.ThumbnailCacheEvictions.Inc()
	}
	for c.maxBytes > 0 && c.bytes.Load() > c.maxBytes && c.lru.Len() > 1 {
		if _, _, ok := c.lru.RemoveOldest(); !ok {
			break
		}
		metrics.ThumbnailCacheEvictions.Inc()
	}
	metrics.ThumbnailCacheCount.Set(float64(c.lru.Len()))
}

func (c *memoCache) remove(key string) bool {
	c.gen.Add(1)
	c.group.Forget(key)
	present := c.lru.Remove(key)
	metrics.ThumbnailCacheCount.Set(float64(c.lru.Len()))
	return present
}

func (c *memoCache) purge() {
	c.gen.Add(1)
	c.lru.Purge()
	metrics.ThumbnailCacheCount.Set(0)
}

func (c *memoCache) len() int {
	return c.lru.Len()
}

// held returns the bytes held by cached canvases.
func (c *memoCache) held() int64 {
	return c.bytes.Load()
}
