// Package session drives a download run: batch planning, the per-tick
// scheduler loop, the per-item downloader, and the shared memory budget.
//
// A session downloads the same target over and over in fixed-size batches,
// one batch per tick, until cancelled. Cancellation is observed only
// between ticks; a batch that has started always runs to completion.
package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/justapithecus/sluice/fetch"
	"github.com/justapithecus/sluice/log"
	"github.com/justapithecus/sluice/progress"
	"github.com/justapithecus/sluice/stats"
	"github.com/justapithecus/sluice/store"
	"github.com/justapithecus/sluice/sysinfo"
	"github.com/justapithecus/sluice/types"
)

// Defaults applied by NewScheduler when the config leaves a field zero.
const (
	DefaultBatchSize      = 20
	DefaultMemoryBudgetMB = 300
	DefaultDownloadDir    = "downloads"
	DefaultTickInterval   = time.Second
)

// Config carries the tunables for one session.
type Config struct {
	// Target is the URL downloaded by every item.
	Target string
	// BatchSize is the requested concurrent downloads per tick.
	BatchSize int
	// MemoryBudgetMB caps in-memory placement.
	MemoryBudgetMB uint64
	// DownloadDir is the spill directory for disk-placed items.
	DownloadDir string
	// TickInterval is the pause between batches.
	TickInterval time.Duration
	// ClientTimeout bounds every request, probe included.
	ClientTimeout time.Duration
	// FrozenMemory replays the first memory reading for the whole run
	// instead of sampling live per item.
	FrozenMemory bool

	// Memory overrides the host memory source. Nil means live host data.
	Memory sysinfo.MemorySource
	// Out receives progress bars and throughput lines. Nil means stdout.
	Out io.Writer
}

func (c *Config) normalize() {
	if c.BatchSize < 1 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MemoryBudgetMB == 0 {
		c.MemoryBudgetMB = DefaultMemoryBudgetMB
	}
	if c.DownloadDir == "" {
		c.DownloadDir = DefaultDownloadDir
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.ClientTimeout <= 0 {
		c.ClientTimeout = fetch.DefaultTimeout
	}
	if c.Memory == nil {
		c.Memory = sysinfo.NewHostSource()
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
}

// Scheduler runs the tick loop for one session.
type Scheduler struct {
	config *Config
	meta   *types.SessionMeta
	logger *log.Logger

	memory sysinfo.MemorySource
	budget *Budget
	stats  *stats.Collector
	dir    *store.Dir
	client *http.Client
	plan   Plan

	// prevTickEnd anchors throughput; zero until the first batch joins.
	prevTickEnd time.Time
}

// NewScheduler validates the session identity, applies defaults, and wires
// the logger. Startup work that can fail (probe, directory) happens in Run.
func NewScheduler(config *Config, meta *types.SessionMeta, logger *log.Logger) (*Scheduler, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	config.normalize()

	memory := config.Memory
	if config.FrozenMemory {
		memory = sysinfo.Freeze(memory)
	}

	return &Scheduler{
		config: config,
		meta:   meta,
		logger: logger,
		memory: memory,
		budget: NewBudget(config.MemoryBudgetMB),
		stats:  stats.NewCollector(),
	}, nil
}

// Plan returns the batch plan. Valid after Run has started.
func (s *Scheduler) Plan() Plan { return s.plan }

// Budget returns the session budget.
func (s *Scheduler) Budget() *Budget { return s.budget }

// Run executes the session until ctx is cancelled, then returns the final
// snapshot. Startup failures (bad target, unprobeable size, unusable spill
// directory) abort before the first tick.
func (s *Scheduler) Run(ctx context.Context) (stats.Snapshot, error) {
	if err := s.prepare(ctx); err != nil {
		return stats.Snapshot{}, err
	}

	s.stats.RecordStart(time.Now())
	s.logger.Info("session started", map[string]any{
		"batch_size":   s.plan.Size,
		"item_mb":      s.plan.EstItemMB,
		"budget_mb":    s.budget.MB(),
		"tick":         s.config.TickInterval.String(),
		"download_dir": s.config.DownloadDir,
	})

	for {
		select {
		case <-ctx.Done():
			return s.finalize(), nil
		case <-time.After(s.config.TickInterval):
			s.runBatch(ctx)
		}
	}
}

// prepare does the one-time startup sequence: validate, open the spill
// directory, probe the item size, plan the batch, and run admission.
func (s *Scheduler) prepare(ctx context.Context) error {
	if err := fetch.ValidateTarget(s.config.Target); err != nil {
		return err
	}

	dir, err := store.Open(s.config.DownloadDir)
	if err != nil {
		return fmt.Errorf("open download dir: %w", err)
	}
	s.dir = dir

	probeClient := fetch.NewClient(s.config.ClientTimeout, 1)
	sizeBytes, err := fetch.ProbeSize(ctx, probeClient, s.config.Target)
	if err != nil {
		return err
	}
	itemMB := float64(sizeBytes) / bytesPerMB

	availMB, err := s.memory.AvailableMB()
	if err != nil {
		return fmt.Errorf("read available memory: %w", err)
	}

	s.plan = NewPlan(s.config.BatchSize, availMB, itemMB)
	if s.plan.Size < s.config.BatchSize {
		s.logger.Warn("batch size reduced to fit memory", map[string]any{
			"requested": s.config.BatchSize,
			"planned":   s.plan.Size,
			"avail_mb":  availMB,
			"item_mb":   itemMB,
		})
	}

	if !CheckFeasible(availMB, s.plan.Size, itemMB) {
		s.budget.Collapse()
		s.logger.Warn("batch exceeds available memory, running disk-only", map[string]any{
			"avail_mb":    availMB,
			"required_mb": float64(s.plan.Size) * itemMB,
		})
	}

	s.client = fetch.NewClient(s.config.ClientTimeout, s.plan.Size)
	return nil
}

// runBatch fans out one batch, joins it, folds outcomes into the stats,
// reports throughput, and sweeps the spill directory.
//
// Items run under a detached context so a cancellation arriving mid-batch
// cannot abort transfers already in flight.
func (s *Scheduler) runBatch(ctx context.Context) {
	tickStart := time.Now()
	itemCtx := context.WithoutCancel(ctx)

	downloader := &ItemDownloader{
		Client: s.client,
		Memory: s.memory,
		Budget: s.budget,
		Store:  s.dir,
		Logger: s.logger,
	}

	tracker := progress.NewTracker(s.plan.Size)
	outcomes := make([]types.DownloadOutcome, s.plan.Size)

	var wg sync.WaitGroup
	for i := 0; i < s.plan.Size; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			outcomes[slot] = downloader.Fetch(itemCtx, s.config.Target, tracker)
		}(i)
	}
	wg.Wait()

	for _, outcome := range outcomes {
		s.stats.RecordOutcome(outcome)
	}

	now := time.Now()
	var elapsed time.Duration
	if s.prevTickEnd.IsZero() {
		elapsed = now.Sub(tickStart)
	} else {
		elapsed = now.Sub(s.prevTickEnd)
	}
	s.prevTickEnd = now

	secs := elapsed.Seconds()
	if secs < 1 {
		secs = 1
	}

	fmt.Fprintln(s.config.Out, tracker.View())
	s.logger.Info("batch complete", map[string]any{
		"files":          s.plan.Size,
		"elapsed_s":      elapsed.Seconds(),
		"files_per_sec":  float64(s.plan.Size) / secs,
		"total_attempts": s.stats.Snapshot().Attempts(),
	})

	s.sweep("tick")
}

// finalize takes the closing snapshot and runs the shutdown sweep so the
// directory is left empty even when the last batch spilled.
func (s *Scheduler) finalize() stats.Snapshot {
	snapshot := s.stats.Snapshot()
	s.sweep("shutdown")
	s.logger.Info("session finished", map[string]any{
		"files":    snapshot.TotalFiles,
		"failures": snapshot.FailedDownloads,
		"bytes":    snapshot.TotalBytes,
		"elapsed":  snapshot.Elapsed(time.Now()).String(),
	})
	return snapshot
}

func (s *Scheduler) sweep(phase string) {
	removed, err := s.dir.Sweep()
	if err != nil {
		s.logger.Warn("sweep failed", map[string]any{"phase": phase, "error": err.Error()})
		return
	}
	if removed > 0 {
		s.logger.Debug("swept spill directory", map[string]any{"phase": phase, "removed": removed})
	}
}
