package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"portfolio-gallery/internal/logging"
)

// Stats is a point-in-time snapshot of gallery state exported as gauges.
type Stats struct {
	CatalogEntries   int
	CachedThumbnails int
	CachedBytes      int64
	ActiveSessions   int
}

// StatsFunc returns the current Stats. It is called from the collector
// goroutine and must be safe for concurrent use.
type StatsFunc func() Stats

// Collector publishes Stats on a fixed interval.
type Collector struct {
	stats    StatsFunc
	interval time.Duration

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewCollector creates a collector. A nil stats func makes it a no-op.
func NewCollector(stats StatsFunc, interval time.Duration) *Collector {
	return &Collector{
		stats:    stats,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start publishes once immediately, then every interval until Stop.
func (c *Collector) Start() {
	if c.started.CompareAndSwap(false, true) {
		go c.run()
	}
}

// Stop ends the loop and waits for it to exit. It is safe to call more
// than once, and before Start.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	if c.started.Load() {
		<-c.done
	}
}

func (c *Collector) run() {
	defer close(c.done)

	c.Collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Collect()
		case <-c.stop:
			return
		}
	}
}

// Collect publishes the current Stats.
func (c *Collector) Collect() {
	if c.stats == nil {
		return
	}
	s := c.stats()

	CatalogEntries.Set(float64(s.CatalogEntries))
	ThumbnailCacheCount.Set(float64(s.CachedThumbnails))
	ThumbnailCacheBytes.Set(float64(s.CachedBytes))
	ActiveSessions.Set(float64(s.ActiveSessions))

	logging.Debug("Metrics collected: entries=%d, thumbnails=%d, sessions=%d",
		s.CatalogEntries, s.CachedThumbnails, s.ActiveSessions)
}
