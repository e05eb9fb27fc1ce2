package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/justapithecus/sluice/types"
)

func TestCollector_RecordOutcome(t *testing.T) {
	c := NewCollector()

	c.RecordOutcome(types.Success(1024, types.PlacementMemory))
	c.RecordOutcome(types.Success(2048, types.PlacementDisk))
	c.RecordOutcome(types.Failure(types.FailureNetwork))
	c.RecordOutcome(types.StatusFailure(503))

	s := c.Snapshot()

	if s.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", s.TotalFiles)
	}
	if s.FailedDownloads != 2 {
		t.Errorf("FailedDownloads = %d, want 2", s.FailedDownloads)
	}
	// Bytes count regardless of placement.
	if s.TotalBytes != 3072 {
		t.Errorf("TotalBytes = %d, want 3072", s.TotalBytes)
	}
	if s.Attempts() != 4 {
		t.Errorf("Attempts = %d, want 4", s.Attempts())
	}
}

func TestCollector_RecordStart_FirstWins(t *testing.T) {
	c := NewCollector()

	first := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	c.RecordStart(first)
	c.RecordStart(second)

	s := c.Snapshot()
	if s.StartTime == nil {
		t.Fatal("StartTime is nil after RecordStart")
	}
	if !s.StartTime.Equal(first) {
		t.Errorf("StartTime = %v, want %v", s.StartTime, first)
	}
}

func TestCollector_SnapshotBeforeStart(t *testing.T) {
	c := NewCollector()

	s := c.Snapshot()
	if s.StartTime != nil {
		t.Errorf("StartTime = %v, want nil before start", s.StartTime)
	}
	if s.Elapsed(time.Now()) != 0 {
		t.Errorf("Elapsed = %v, want 0 before start", s.Elapsed(time.Now()))
	}
}

func TestCollector_SnapshotImmutability(t *testing.T) {
	c := NewCollector()
	c.RecordOutcome(types.Success(100, types.PlacementMemory))

	s1 := c.Snapshot()

	c.RecordOutcome(types.Success(100, types.PlacementMemory))
	c.RecordOutcome(types.Failure(types.FailureBodyRead))

	if s1.TotalFiles != 1 {
		t.Errorf("s1.TotalFiles = %d, want 1 (snapshot should be frozen)", s1.TotalFiles)
	}
	if s1.TotalBytes != 100 {
		t.Errorf("s1.TotalBytes = %d, want 100 (snapshot should be frozen)", s1.TotalBytes)
	}

	s2 := c.Snapshot()
	if s2.TotalFiles != 2 || s2.FailedDownloads != 1 {
		t.Errorf("s2 = %+v, want 2 files / 1 failure", s2)
	}
}

func TestCollector_NilReceiverSafety(t *testing.T) {
	var c *Collector

	c.RecordStart(time.Now())
	c.RecordOutcome(types.Success(10, types.PlacementMemory))

	s := c.Snapshot()
	if s.TotalFiles != 0 {
		t.Errorf("nil collector snapshot TotalFiles = %d, want 0", s.TotalFiles)
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	c := NewCollector()
	const goroutines = 10
	const iterations = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(fail bool) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				if fail {
					c.RecordOutcome(types.Failure(types.FailureNetwork))
				} else {
					c.RecordOutcome(types.Success(1, types.PlacementMemory))
				}
			}
		}(i%2 == 0)
	}

	wg.Wait()

	s := c.Snapshot()
	wantHalf := uint64(goroutines / 2 * iterations)

	if s.TotalFiles != wantHalf {
		t.Errorf("TotalFiles = %d, want %d", s.TotalFiles, wantHalf)
	}
	if s.FailedDownloads != wantHalf {
		t.Errorf("FailedDownloads = %d, want %d", s.FailedDownloads, wantHalf)
	}
	if s.TotalBytes != wantHalf {
		t.Errorf("TotalBytes = %d, want %d", s.TotalBytes, wantHalf)
	}
	if s.Attempts() != uint64(goroutines*iterations) {
		t.Errorf("Attempts = %d, want %d", s.Attempts(), goroutines*iterations)
	}
}
