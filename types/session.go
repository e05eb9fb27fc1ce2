package types

import "fmt"

// SessionMeta identifies a single download session.
// All log entries carry these fields.
type SessionMeta struct {
	// SessionID is the unique session identifier.
	SessionID string
	// Target is the resource URL fetched by every item in the session.
	Target string
}

// Validate checks session metadata.
func (m *SessionMeta) Validate() error {
	if m == nil {
		return fmt.Errorf("session metadata is nil")
	}
	if m.SessionID == "" {
		return fmt.Errorf("session_id must not be empty")
	}
	if m.Target == "" {
		return fmt.Errorf("target must not be empty")
	}
	return nil
}
