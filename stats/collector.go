// Package stats provides session statistics aggregation.
//
// The Collector accumulates counters during a single download session. It is
// a leaf package with no internal dependencies. Items completing concurrently
// within one batch fold their outcomes through the same lock, so a snapshot
// never observes a byte count without its matching file count.
package stats

import (
	"sync"
	"time"

	"github.com/justapithecus/sluice/types"
)

// Snapshot is an immutable point-in-time view of the session counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// TotalFiles is the number of successful downloads, placement-independent.
	TotalFiles uint64
	// FailedDownloads is the number of failed download attempts.
	FailedDownloads uint64
	// TotalBytes is the sum of all successful items' byte counts.
	TotalBytes uint64
	// StartTime is when the session began; nil before RecordStart.
	StartTime *time.Time
}

// Attempts returns the total download attempts issued.
func (s Snapshot) Attempts() uint64 {
	return s.TotalFiles + s.FailedDownloads
}

// Elapsed returns the session duration at time now, or zero before start.
func (s Snapshot) Elapsed(now time.Time) time.Duration {
	if s.StartTime == nil {
		return 0
	}
	return now.Sub(*s.StartTime)
}

// Collector accumulates statistics during a single session.
// Thread-safe via sync.Mutex. All methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	totalFiles      uint64
	failedDownloads uint64
	totalBytes      uint64
	startTime       *time.Time
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordStart records the session start time. The first call wins;
// later calls are ignored.
func (c *Collector) RecordStart(t time.Time) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if c.startTime == nil {
		c.startTime = &t
	}
	c.mu.Unlock()
}

// RecordOutcome folds one item outcome into the counters. A success
// increments the file count and adds its bytes under the same lock
// acquisition, so the two can never be observed apart.
func (c *Collector) RecordOutcome(o types.DownloadOutcome) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if o.Failed {
		c.failedDownloads++
	} else {
		c.totalFiles++
		c.totalBytes += o.Bytes
	}
	c.mu.Unlock()
}

// Snapshot returns an immutable point-in-time view of the counters.
// The Collector can continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		TotalFiles:      c.totalFiles,
		FailedDownloads: c.failedDownloads,
		TotalBytes:      c.totalBytes,
	}
	if c.startTime != nil {
		t := *c.startTime
		snap.StartTime = &t
	}
	return snap
}
