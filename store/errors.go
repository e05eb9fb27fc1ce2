// Storage error classification.
//
// Sentinel errors and a wrapper type let callers use errors.Is/errors.As
// for typed assertions rather than string matching.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"
)

// Sentinel errors for spill failure classification.
var (
	// ErrPermissionDenied indicates a permission/access failure (EACCES).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound indicates the target path does not exist (ENOENT).
	ErrNotFound = errors.New("not found")

	// ErrDiskFull indicates storage is out of space (ENOSPC).
	ErrDiskFull = errors.New("no space left on device")
)

// SpillError wraps an underlying error with storage classification.
// It preserves the original error in the chain for inspection via errors.As.
type SpillError struct {
	// Kind is the sentinel error for classification, nil when unclassified.
	Kind error
	// Op is the operation that failed ("write", "read").
	Op string
	// Path is the filesystem path involved.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *SpillError) Error() string {
	if e.Kind != nil {
		return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *SpillError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *SpillError) Is(target error) bool {
	return e.Kind != nil && errors.Is(e.Kind, target)
}

// WrapWriteError classifies and wraps a write operation error.
// Returns nil if err is nil.
func WrapWriteError(err error, path string) error {
	if err == nil {
		return nil
	}
	return &SpillError{Kind: classify(err), Op: "write", Path: path, Err: err}
}

// WrapReadError classifies and wraps a read operation error.
// Returns nil if err is nil.
func WrapReadError(err error, path string) error {
	if err == nil {
		return nil
	}
	return &SpillError{Kind: classify(err), Op: "read", Path: path, Err: err}
}

// classify maps an error to a sentinel, preferring typed checks over
// message patterns.
func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EACCES):
		return ErrPermissionDenied
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOENT):
		return ErrNotFound
	case errors.Is(err, syscall.ENOSPC):
		return ErrDiskFull
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "permission denied"):
		return ErrPermissionDenied
	case strings.Contains(msg, "no such file"), strings.Contains(msg, "not found"):
		return ErrNotFound
	case strings.Contains(msg, "no space left"), strings.Contains(msg, "disk full"):
		return ErrDiskFull
	default:
		return nil
	}
}
