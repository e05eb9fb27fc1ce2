package session

// Plan is the batch plan computed once at session start and reused for
// every tick.
type Plan struct {
	// Size is the concurrent downloads per tick, always >= 1.
	Size int
	// EstItemMB is the probed item size in megabytes.
	EstItemMB float64
}

// ComputeBatchSize turns the requested batch size and memory readings into
// an admissible size. The factor 2 assumes the true memory need of an item
// may be underestimated by up to 2x.
//
// Pure and deterministic. A non-positive item size cannot bound anything
// and falls back to the requested size.
func ComputeBatchSize(requested int, availableMB, itemMB float64) int {
	if requested < 1 {
		requested = 1
	}
	if itemMB <= 0 {
		return requested
	}

	safe := int(availableMB / itemMB * 2)
	if safe < 1 {
		safe = 1
	}
	if safe < requested {
		return safe
	}
	return requested
}

// CheckFeasible reports whether a full batch of the already-computed size
// fits in available memory. Advisory only: a false result toggles the
// placement policy (budget collapse), never the batch size.
func CheckFeasible(availableMB float64, batchSize int, itemMB float64) bool {
	return availableMB > float64(batchSize)*itemMB
}

// NewPlan computes the batch plan from the requested size and readings.
func NewPlan(requested int, availableMB, itemMB float64) Plan {
	return Plan{
		Size:      ComputeBatchSize(requested, availableMB, itemMB),
		EstItemMB: itemMB,
	}
}
