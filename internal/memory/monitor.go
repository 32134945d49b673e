package memory

import (
	"runtime"
	"sync"
	"time"

	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/metrics"
)

// MonitorConfig controls when the monitor reports memory pressure.
type MonitorConfig struct {
	// Limit is the heap budget in bytes. 0 uses the Go soft memory limit.
	Limit int64
	// CriticalWaterMark is the usage ratio at which pressure starts.
	CriticalWaterMark float64
	// HighWaterMark is the usage ratio below which pressure ends.
	HighWaterMark float64
	CheckInterval time.Duration
}

// DefaultMonitorConfig returns the thresholds used by the server.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		CriticalWaterMark: 0.85,
		HighWaterMark:     0.7,
		CheckInterval:     5 * time.Second,
	}
}

// Monitor samples heap usage against the memory limit. When usage crosses
// the critical mark it calls the release hook once, which should drop
// caches, and stays under pressure until usage falls below the high mark.
type Monitor struct {
	config    MonitorConfig
	release   func()
	readAlloc func() uint64

	mu       sync.Mutex
	pressure bool
	usage    float64

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMonitor creates a Monitor that calls release on each new pressure episode.
func NewMonitor(config MonitorConfig, release func()) *Monitor {
	if config.Limit <= 0 {
		config.Limit = CurrentLimit()
	}
	if config.Limit == 0 {
		logging.Warn("Memory monitor: no memory limit configured, cache release disabled")
	}

	return &Monitor{
		config:    config,
		release:   release,
		readAlloc: heapAlloc,
		stop:      make(chan struct{}),
	}
}

func heapAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapAlloc
}

// Start begins sampling in the background. It does nothing without a limit.
func (m *Monitor) Start() {
	if m.config.Limit == 0 {
		return
	}
	go m.loop()
}

// Stop ends sampling. It is safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check()
		case <-m.stop:
			return
		}
	}
}

func (m *Monitor) check() {
	if m.config.Limit == 0 {
		return
	}

	alloc := m.readAlloc()
	usage := float64(alloc) / float64(m.config.Limit)
	metrics.MemoryUsageRatio.Set(usage)

	m.mu.Lock()
	m.usage = usage
	entered := false
	switch {
	case !m.pressure && usage >= m.config.CriticalWaterMark:
		m.pressure = true
		entered = true
	case m.pressure && usage < m.config.HighWaterMark:
		m.pressure = false
		metrics.MemoryUnderPressure.Set(0)
		logging.Info("Memory recovered (%.1f%% of limit)", usage*100)
	}
	m.mu.Unlock()

	if !entered {
		return
	}

	logging.Warn("Memory critical (%.1f%% of %s), releasing caches", usage*100, FormatBytes(m.config.Limit))
	metrics.MemoryPressureTotal.Inc()
	metrics.MemoryUnderPressure.Set(1)
	if m.release != nil {
		m.release()
	}
	runtime.GC()
}

// UnderPressure reports whether usage is between crossing the critical mark
// and falling back below the high mark.
func (m *Monitor) UnderPressure() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pressure
}

// Usage returns the last sampled usage ratio.
func (m *Monitor) Usage() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usage
}
