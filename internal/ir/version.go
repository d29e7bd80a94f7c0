package ir

// Version constants for the stored data layout and the service.
const (
	// SchemaVersion is the on-disk schema version (SQLite user_version).
	SchemaVersion = 1

	// ServiceVersion is the spell service version.
	ServiceVersion = "0.1.0"
)
