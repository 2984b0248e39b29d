package bundleassets

import "runtime"

// Worker sizing constants.
const (
	// MinWorkers ensures at least one file is processed at a time.
	MinWorkers = 1

	// MaxWorkers caps concurrent file tasks to bound open descriptors.
	MaxWorkers = 64
)

// ResolveWorkers determines how many files are processed concurrently.
// Priority: explicit value > GOMAXPROCS-based calculation.
// Exported for use by CLIs.
func ResolveWorkers(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return min(workers, MaxWorkers)
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers).
	// Work is I/O bound, so one task per available CPU is enough.
	return max(MinWorkers, min(runtime.GOMAXPROCS(0), MaxWorkers))
}
