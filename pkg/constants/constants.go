// Package constants provides shared constants used throughout the
// crosscheck codebase.
package constants

import "time"

// Timeouts.
const (
	// CommandTimeout is the default timeout for CLI commands.
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions.
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x).
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--).
	FilePermissions = 0644
)

// Limits.
const (
	// MaxCells caps the number of cells a reader will load from one
	// table, guarding against runaway inputs.
	MaxCells = 10_000_000
)
