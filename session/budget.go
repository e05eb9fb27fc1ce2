package session

import "sync/atomic"

// Budget is the shared memory budget in megabytes.
//
// Every item in a batch reads it to decide placement; it is written at most
// once per run, by the admission check, and only in one direction: collapse
// to zero. A collapsed budget forces disk placement for the rest of the run.
type Budget struct {
	mb atomic.Uint64
}

// NewBudget creates a budget of the given size in megabytes.
func NewBudget(mb uint64) *Budget {
	b := &Budget{}
	b.mb.Store(mb)
	return b
}

// MB returns the current budget in megabytes.
func (b *Budget) MB() float64 {
	return float64(b.mb.Load())
}

// Collapse zeroes the budget permanently. The transition is one-way;
// there is no operation that raises the budget.
func (b *Budget) Collapse() {
	b.mb.Store(0)
}

// Collapsed reports whether the budget has been zeroed.
func (b *Budget) Collapsed() bool {
	return b.mb.Load() == 0
}
