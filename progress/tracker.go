// Package progress tracks per-tick download completion.
//
// Successful items increment the tracker from their own goroutines; the
// scheduler renders the bar once the batch joins. Increments are unordered
// and best-effort between items.
package progress

import (
	"fmt"
	"sync/atomic"

	bar "github.com/charmbracelet/bubbles/progress"
)

// Tracker counts completed items within one batch and renders a bar.
type Tracker struct {
	total int64
	done  atomic.Int64
	model bar.Model
}

// NewTracker creates a tracker for a batch of the given size.
func NewTracker(total int) *Tracker {
	if total < 1 {
		total = 1
	}
	return &Tracker{
		total: int64(total),
		model: bar.New(bar.WithDefaultGradient(), bar.WithWidth(40)),
	}
}

// Inc records one completed item. Safe for concurrent use.
func (t *Tracker) Inc() {
	t.done.Add(1)
}

// Done returns the number of completed items so far.
func (t *Tracker) Done() int64 {
	return t.done.Load()
}

// Total returns the batch size.
func (t *Tracker) Total() int64 {
	return t.total
}

// Ratio returns completion in [0, 1].
func (t *Tracker) Ratio() float64 {
	done := t.done.Load()
	if done > t.total {
		done = t.total
	}
	return float64(done) / float64(t.total)
}

// View renders the bar with a done/total suffix.
func (t *Tracker) View() string {
	return fmt.Sprintf("%s %d/%d", t.model.ViewAs(t.Ratio()), t.Done(), t.total)
}
