package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeMonitor returns a Monitor with a 1000 byte budget whose heap reading
// is taken from *alloc.
func fakeMonitor(alloc *uint64, released *int) *Monitor {
	m := NewMonitor(MonitorConfig{
		Limit:             1000,
		CriticalWaterMark: 0.85,
		HighWaterMark:     0.7,
		CheckInterval:     time.Hour,
	}, func() { *released++ })
	m.readAlloc = func() uint64 { return *alloc }
	return m
}

func TestMonitorHysteresis(t *testing.T) {
	var alloc uint64
	released := 0
	m := fakeMonitor(&alloc, &released)

	steps := []struct {
		alloc    uint64
		pressure bool
		released int
	}{
		{500, false, 0},
		{900, true, 1},  // crosses critical
		{950, true, 1},  // still critical, no second release
		{800, true, 1},  // between marks, stays under pressure
		{600, false, 1}, // below high mark
		{860, true, 2},  // new episode
	}

	for i, step := range steps {
		alloc = step.alloc
		m.check()
		assert.Equal(t, step.pressure, m.UnderPressure(), "step %d", i)
		assert.Equal(t, step.released, released, "step %d", i)
		assert.InDelta(t, float64(step.alloc)/1000, m.Usage(), 1e-9, "step %d", i)
	}
}

func TestMonitorWithoutLimitIsInert(t *testing.T) {
	released := 0
	m := &Monitor{
		config:    MonitorConfig{CriticalWaterMark: 0.1, HighWaterMark: 0.05},
		release:   func() { released++ },
		readAlloc: func() uint64 { return 1 << 40 },
		stop:      make(chan struct{}),
	}

	m.Start()
	m.check()
	assert.False(t, m.UnderPressure())
	assert.Zero(t, released)
	m.Stop()
}

func TestMonitorStopIsIdempotent(t *testing.T) {
	var alloc uint64
	released := 0
	m := fakeMonitor(&alloc, &released)

	m.Start()
	m.Stop()
	m.Stop()
}
