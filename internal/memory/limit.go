package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"portfolio-gallery/internal/logging"
)

// DefaultRatio is the share of the container limit given to the Go heap.
// Decoded source images are transient and large, so some headroom is kept
// for the allocations the collector has not yet reclaimed.
const DefaultRatio = 0.85

// Limit describes how the Go soft memory limit was configured.
type Limit struct {
	// Source is "GOMEMLIMIT", "MEMORY_LIMIT" or "none".
	Source         string
	ContainerLimit int64
	GoMemLimit     int64
	Ratio          float64
}

// ApplyLimit sets the Go soft memory limit to ratio of containerLimit bytes.
// An explicit GOMEMLIMIT in the environment wins and is only reported. A
// containerLimit of 0 leaves the runtime default in place.
func ApplyLimit(containerLimit int64, ratio float64) Limit {
	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		current := debug.SetMemoryLimit(-1)
		logging.Info("GOMEMLIMIT set via environment: %s", env)
		if current <= 0 || current == math.MaxInt64 {
			return Limit{Source: "none"}
		}
		return Limit{Source: "GOMEMLIMIT", GoMemLimit: current}
	}

	if containerLimit <= 0 {
		logging.Debug("MEMORY_LIMIT not set, GOMEMLIMIT will not be configured automatically")
		return Limit{Source: "none"}
	}

	if ratio <= 0 || ratio > 1 {
		logging.Warn("MEMORY_RATIO %.2f out of range (0.0-1.0), using default %.2f", ratio, DefaultRatio)
		ratio = DefaultRatio
	}

	goMemLimit := int64(float64(containerLimit) * ratio)
	debug.SetMemoryLimit(goMemLimit)

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
		FormatBytes(goMemLimit), ratio*100, FormatBytes(containerLimit))

	return Limit{
		Source:         "MEMORY_LIMIT",
		ContainerLimit: containerLimit,
		GoMemLimit:     goMemLimit,
		Ratio:          ratio,
	}
}

// CurrentLimit returns the Go soft memory limit, or 0 when none is set.
func CurrentLimit() int64 {
	limit := debug.SetMemoryLimit(-1)
	if limit <= 0 || limit == math.MaxInt64 {
		return 0
	}
	return limit
}

// FormatBytes renders b with a binary unit, e.g. "1.5 GiB".
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
