// Package types defines core domain types for the sluice runtime.
//
//nolint:revive // types is a common Go package naming convention
package types

import "fmt"

// Placement describes where a successfully downloaded item's content ended up.
type Placement string

const (
	// PlacementMemory means the content was counted and discarded without
	// touching disk.
	PlacementMemory Placement = "memory"
	// PlacementDisk means the content was spilled to the download directory.
	PlacementDisk Placement = "disk"
)

// FailureKind classifies a per-item download failure.
type FailureKind string

const (
	// FailureNetwork is a connect or transfer failure.
	FailureNetwork FailureKind = "network"
	// FailureHTTPStatus is a non-success response status code.
	FailureHTTPStatus FailureKind = "http_status"
	// FailureBodyRead is a truncated or corrupt body transfer.
	FailureBodyRead FailureKind = "body_read"
	// FailureDiskWrite is a spill persistence failure.
	FailureDiskWrite FailureKind = "disk_write"
)

// DownloadOutcome is the result of a single item download within a batch.
// Exactly one of the success fields or the failure fields is meaningful,
// discriminated by Failed. Outcomes are folded into the stats collector
// immediately after the batch joins and are never persisted individually.
type DownloadOutcome struct {
	// Failed discriminates failure outcomes from successes.
	Failed bool
	// Bytes is the downloaded content size (success only).
	Bytes uint64
	// Placement records memory residency vs disk spill (success only).
	Placement Placement
	// Kind classifies the failure (failure only).
	Kind FailureKind
	// StatusCode is the HTTP status code (http_status failures only).
	StatusCode int
}

// Success builds a successful outcome.
func Success(bytes uint64, placement Placement) DownloadOutcome {
	return DownloadOutcome{Bytes: bytes, Placement: placement}
}

// Failure builds a failed outcome.
func Failure(kind FailureKind) DownloadOutcome {
	return DownloadOutcome{Failed: true, Kind: kind}
}

// StatusFailure builds a failed outcome carrying the response status code.
func StatusFailure(code int) DownloadOutcome {
	return DownloadOutcome{Failed: true, Kind: FailureHTTPStatus, StatusCode: code}
}

// String renders the outcome for one-line warnings and logs.
func (o DownloadOutcome) String() string {
	if !o.Failed {
		return fmt.Sprintf("success (%d bytes, %s)", o.Bytes, o.Placement)
	}
	if o.Kind == FailureHTTPStatus {
		return fmt.Sprintf("failed (%s %d)", o.Kind, o.StatusCode)
	}
	return fmt.Sprintf("failed (%s)", o.Kind)
}
