package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/sluice/session"
	"github.com/justapithecus/sluice/stats"
	"github.com/justapithecus/sluice/sysinfo"
	"github.com/justapithecus/sluice/types"
)

// Color palette.
var (
	primaryColor = lipgloss.Color("#7C3AED") // Purple
	successColor = lipgloss.Color("#10B981") // Green
	mutedColor   = lipgloss.Color("#6B7280") // Gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(14)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 2)

	reportBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(successColor).
			Padding(0, 2)
)

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

// printBanner renders the startup banner: session identity, tunables, and
// a host overview.
func printBanner(w io.Writer, meta *types.SessionMeta, cfg *session.Config) {
	overview := sysinfo.HostOverview()

	body := lipgloss.JoinVertical(lipgloss.Left,
		row("Target", meta.Target),
		row("Session", meta.SessionID),
		row("Batch size", fmt.Sprintf("%d", cfg.BatchSize)),
		row("Budget", fmt.Sprintf("%d MB", cfg.MemoryBudgetMB)),
		row("Spill dir", cfg.DownloadDir),
		row("Tick", cfg.TickInterval.String()),
	)

	host := lipgloss.JoinVertical(lipgloss.Left,
		row("OS", overview.OS),
		row("CPU cores", fmt.Sprintf("%d", overview.CPUCores)),
		row("Avail mem", fmt.Sprintf("%.1f GB", overview.AvailableGB)),
	)

	fmt.Fprintln(w, titleStyle.Render("sluice"))
	fmt.Fprintln(w, boxStyle.Render(body))
	fmt.Fprintln(w, boxStyle.Render(host))
}

// printReport renders the completion report from the final snapshot.
func printReport(w io.Writer, snapshot stats.Snapshot, now time.Time) {
	elapsed := snapshot.Elapsed(now)
	secs := elapsed.Seconds()
	if secs <= 0 {
		secs = 1
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		row("Downloaded", fmt.Sprintf("%d files", snapshot.TotalFiles)),
		row("Failed", fmt.Sprintf("%d", snapshot.FailedDownloads)),
		row("Bytes", fmt.Sprintf("%.1f MB", float64(snapshot.TotalBytes)/(1024.0*1024.0))),
		row("Elapsed", elapsed.Round(time.Millisecond).String()),
		row("Throughput", fmt.Sprintf("%.1f files/s", float64(snapshot.TotalFiles)/secs)),
	)

	fmt.Fprintln(w, reportBoxStyle.Render(body))
}
