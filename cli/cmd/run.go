// Package cmd implements the sluice CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/sluice/adapter"
	"github.com/justapithecus/sluice/cli/config"
	"github.com/justapithecus/sluice/fetch"
	"github.com/justapithecus/sluice/log"
	"github.com/justapithecus/sluice/session"
	"github.com/justapithecus/sluice/stats"
	"github.com/justapithecus/sluice/types"
)

// Exit codes for the run command.
const (
	exitSuccess = 0
	exitFailure = 1
)

// RunCommand returns the run command, the only command that executes work.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Download a target in repeated concurrent batches until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to sluice.yaml config file",
			},
			&cli.StringFlag{
				Name:  "target",
				Usage: "Target URL to download (http:// or https://)",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Concurrent downloads per tick",
				Value: session.DefaultBatchSize,
			},
			&cli.Uint64Flag{
				Name:  "memory-budget-mb",
				Usage: "Memory budget in MB for in-memory placement",
				Value: session.DefaultMemoryBudgetMB,
			},
			&cli.StringFlag{
				Name:  "download-dir",
				Usage: "Directory for disk-placed downloads",
				Value: session.DefaultDownloadDir,
			},
			&cli.DurationFlag{
				Name:  "tick-interval",
				Usage: "Pause between batches",
				Value: session.DefaultTickInterval,
			},
			&cli.DurationFlag{
				Name:  "client-timeout",
				Usage: "Per-request HTTP timeout",
				Value: fetch.DefaultTimeout,
			},
			&cli.BoolFlag{
				Name:  "frozen-memory",
				Usage: "Sample memory once at startup instead of per item",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress banner and completion report",
			},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	if cfg.Target == "" {
		return cli.Exit("target is required (--target or config file)", exitFailure)
	}

	meta := &types.SessionMeta{
		SessionID: uuid.New().String(),
		Target:    cfg.Target,
	}
	logger := log.NewLogger(meta)

	sessionConfig := &session.Config{
		Target:         cfg.Target,
		BatchSize:      cfg.BatchSize,
		MemoryBudgetMB: cfg.MemoryBudgetMB,
		DownloadDir:    cfg.DownloadDir,
		TickInterval:   cfg.TickInterval.Duration,
		ClientTimeout:  cfg.ClientTimeout.Duration,
		FrozenMemory:   cfg.FrozenMemory,
	}

	scheduler, err := session.NewScheduler(sessionConfig, meta, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid session: %v", err), exitFailure)
	}

	if !c.Bool("quiet") {
		printBanner(c.App.Writer, meta, sessionConfig)
	}

	// Ctrl-C stops the tick loop; an in-flight batch still completes.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	snapshot, err := scheduler.Run(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("session failed: %v", err), exitFailure)
	}

	if !c.Bool("quiet") {
		printReport(c.App.Writer, snapshot, time.Now())
	}

	if cfg.Adapter.Type != "" {
		publishCompletion(logger, cfg.Adapter, meta, snapshot)
	}

	return cli.Exit("", exitSuccess)
}

// resolveConfig merges the config file with CLI flags. Flags set explicitly
// always win; file values fill the rest; session defaults cover the gaps.
func resolveConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("target") || cfg.Target == "" {
		cfg.Target = c.String("target")
	}
	if c.IsSet("batch-size") || cfg.BatchSize == 0 {
		cfg.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("memory-budget-mb") || cfg.MemoryBudgetMB == 0 {
		cfg.MemoryBudgetMB = c.Uint64("memory-budget-mb")
	}
	if c.IsSet("download-dir") || cfg.DownloadDir == "" {
		cfg.DownloadDir = c.String("download-dir")
	}
	if c.IsSet("tick-interval") || cfg.TickInterval.Duration == 0 {
		cfg.TickInterval.Duration = c.Duration("tick-interval")
	}
	if c.IsSet("client-timeout") || cfg.ClientTimeout.Duration == 0 {
		cfg.ClientTimeout.Duration = c.Duration("client-timeout")
	}
	if c.IsSet("frozen-memory") {
		cfg.FrozenMemory = c.Bool("frozen-memory")
	}

	return cfg, nil
}

// publishCompletion sends the completion event through the configured
// adapter. Publish failures are logged, never fatal: the session already
// succeeded.
func publishCompletion(logger *log.Logger, cfg config.AdapterConfig, meta *types.SessionMeta, snapshot stats.Snapshot) {
	a, err := buildAdapter(cfg)
	if err != nil {
		logger.Warn("adapter disabled", map[string]any{"error": err.Error()})
		return
	}
	defer func() { _ = a.Close() }()

	publishCtx, cancel := context.WithTimeout(context.Background(), publishDeadline)
	defer cancel()

	event := adapter.NewSessionCompletedEvent(meta, snapshot, time.Now())
	if err := a.Publish(publishCtx, event); err != nil {
		logger.Warn("completion publish failed", map[string]any{
			"adapter": cfg.Type,
			"error":   err.Error(),
		})
		return
	}
	logger.Info("completion published", map[string]any{"adapter": cfg.Type})
}
