package session

import (
	"context"
	"io"
	"net/http"

	"github.com/justapithecus/sluice/iox"
	"github.com/justapithecus/sluice/log"
	"github.com/justapithecus/sluice/progress"
	"github.com/justapithecus/sluice/store"
	"github.com/justapithecus/sluice/sysinfo"
	"github.com/justapithecus/sluice/types"
)

const bytesPerMB = 1024.0 * 1024.0

// ItemDownloader performs one download attempt per call. All attempts in a
// batch share the client, memory source, budget, and spill directory.
//
// An attempt never returns an error: every failure is classified into a
// DownloadOutcome so one bad item cannot take the batch down.
type ItemDownloader struct {
	Client *http.Client
	Memory sysinfo.MemorySource
	Budget *Budget
	Store  *store.Dir
	Logger *log.Logger
}

// Fetch downloads the target once and decides placement from the memory
// budget. On success the tracker is incremented.
func (d *ItemDownloader) Fetch(ctx context.Context, target string, tracker *progress.Tracker) types.DownloadOutcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		d.Logger.Warn("request build failed", map[string]any{"error": err.Error()})
		return types.Failure(types.FailureNetwork)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		d.Logger.Warn("download request failed", map[string]any{"error": err.Error()})
		return types.Failure(types.FailureNetwork)
	}
	defer iox.DiscardClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection returns to the pool.
		_, _ = io.Copy(io.Discard, resp.Body)
		d.Logger.Warn("download rejected", map[string]any{"status": resp.StatusCode})
		return types.StatusFailure(resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		d.Logger.Warn("body read failed", map[string]any{"error": err.Error()})
		return types.Failure(types.FailureBodyRead)
	}

	placement, outcome := d.place(content)
	if outcome != nil {
		return *outcome
	}

	tracker.Inc()
	return types.Success(uint64(len(content)), placement)
}

// place decides where the fetched content lives. Memory placement is
// letting the buffer go out of scope; disk placement spills it under a
// fresh name for the next sweep to reclaim.
func (d *ItemDownloader) place(content []byte) (types.Placement, *types.DownloadOutcome) {
	contentMB := float64(len(content)) / bytesPerMB

	procMB, err := d.Memory.ProcessUsageMB()
	if err == nil && procMB+contentMB < d.Budget.MB() {
		return types.PlacementMemory, nil
	}
	if err != nil {
		d.Logger.Warn("process memory reading failed, spilling to disk", map[string]any{"error": err.Error()})
	}

	name, err := d.Store.Spill(content)
	if err != nil {
		d.Logger.Warn("disk spill failed", map[string]any{"error": err.Error()})
		failure := types.Failure(types.FailureDiskWrite)
		return types.PlacementDisk, &failure
	}

	d.Logger.Debug("spilled to disk", map[string]any{
		"file":       name,
		"content_mb": contentMB,
	})
	return types.PlacementDisk, nil
}
