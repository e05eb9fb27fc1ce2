package types

// Version is the canonical project version.
// The CLI and the session-completed event payload share this version.
const Version = "0.2.0"
