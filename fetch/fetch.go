// Package fetch provides the HTTP surface for a download session: target
// validation, the metadata size probe, and client construction.
//
// Both failure modes here are fatal to the whole run; per-item download
// failures are classified elsewhere and never surface as errors.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/justapithecus/sluice/iox"
)

// DefaultTimeout is the transport ceiling for every request, probe included.
// A transfer hung past this fails as a network error, not a cancellation.
const DefaultTimeout = 30 * time.Second

// Sentinel errors for fatal startup failures.
var (
	// ErrInvalidTarget indicates a target whose scheme is not http or https.
	// Raised before any network activity.
	ErrInvalidTarget = errors.New("invalid target URL")

	// ErrSizeUnavailable indicates the target did not declare a usable
	// Content-Length on the metadata probe.
	ErrSizeUnavailable = errors.New("content length not provided")
)

// ValidateTarget checks the target scheme. It performs no network activity.
func ValidateTarget(target string) error {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return nil
	}
	return fmt.Errorf("%w: %q must start with http:// or https://", ErrInvalidTarget, target)
}

// NewClient builds the session HTTP client. The idle pool is sized to the
// batch so a full tick's connections can be reused across ticks.
func NewClient(timeout time.Duration, poolSize int) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if poolSize < 1 {
		poolSize = 1
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = poolSize
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// ProbeSize issues the metadata-only HEAD request and returns the declared
// size in bytes. A missing or malformed Content-Length is ErrSizeUnavailable.
func ProbeSize(ctx context.Context, client *http.Client, target string) (uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return 0, fmt.Errorf("build probe request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("size probe failed: %w", err)
	}
	defer iox.DiscardClose(resp.Body)
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: probe returned status %d", ErrSizeUnavailable, resp.StatusCode)
	}

	header := resp.Header.Get("Content-Length")
	if header == "" {
		return 0, fmt.Errorf("%w: probe response had no Content-Length", ErrSizeUnavailable)
	}

	size, err := strconv.ParseUint(header, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot parse Content-Length %q: %v", ErrSizeUnavailable, header, err)
	}
	return size, nil
}
