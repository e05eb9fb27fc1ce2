// Package adapter defines the notification boundary for finished sessions.
//
// Adapters publish a completion summary to downstream systems once the
// scheduler has taken its final snapshot. The CLI owns adapter lifecycle;
// configuration only selects and parameterizes one.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/justapithecus/sluice/stats"
	"github.com/justapithecus/sluice/types"
)

// SessionCompletedEvent is the payload published when a session finishes.
type SessionCompletedEvent struct {
	EventType       string `json:"event_type"` // always "session_completed"
	SessionID       string `json:"session_id"`
	Target          string `json:"target"`
	TotalFiles      uint64 `json:"total_files"`
	FailedDownloads uint64 `json:"failed_downloads"`
	TotalBytes      uint64 `json:"total_bytes"`
	DurationMs      int64  `json:"duration_ms"`
	Version         string `json:"version"`
	Timestamp       string `json:"timestamp"` // ISO 8601
}

// NewSessionCompletedEvent builds the event from the final snapshot.
func NewSessionCompletedEvent(meta *types.SessionMeta, snapshot stats.Snapshot, now time.Time) *SessionCompletedEvent {
	return &SessionCompletedEvent{
		EventType:       "session_completed",
		SessionID:       meta.SessionID,
		Target:          meta.Target,
		TotalFiles:      snapshot.TotalFiles,
		FailedDownloads: snapshot.FailedDownloads,
		TotalBytes:      snapshot.TotalBytes,
		DurationMs:      snapshot.Elapsed(now).Milliseconds(),
		Version:         types.Version,
		Timestamp:       now.UTC().Format(time.RFC3339),
	}
}

// Adapter publishes session completion events to a downstream system.
// Implementations must be safe for single-use per session.
type Adapter interface {
	// Publish sends a completion event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *SessionCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}

// ErrNoRetry marks a publish failure more attempts cannot fix.
// Retry stops as soon as a send returns an error wrapping it.
var ErrNoRetry = errors.New("not retriable")

// retryBaseDelay is the pause before the first retry; each further
// retry doubles it.
const retryBaseDelay = 500 * time.Millisecond

// Retry runs send once plus up to retries more times. The whole publish is
// one-shot per session, so there is no queue and no jitter: a short doubling
// pause between attempts is enough. Cancellation is honored before every
// send and during every pause.
func Retry(ctx context.Context, retries int, send func(context.Context) error) error {
	delay := retryBaseDelay
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := send(ctx)
		attempts++
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrNoRetry) {
			return err
		}
		if attempts > retries {
			return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
