// Package constants provides shared constants used throughout the kitstash codebase.
// This includes timeouts, search limits, file permissions, and other values
// that should be consistent across the library and the CLI.
package constants

import "time"

// Timeout constants
const (
	// RelayTimeout bounds a single fetch through the relay
	RelayTimeout = 30 * time.Second

	// SearchDebounce is the quiet period before a typed catalog query runs
	SearchDebounce = 300 * time.Millisecond

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Minute

	// ShutdownTimeout is how long the CLI waits for cleanup after an error
	ShutdownTimeout = 5 * time.Second
)

// Search limits
const (
	// GlobalSearchLimit caps results for a catalog search across all brands
	GlobalSearchLimit = 20

	// BrandSearchLimit caps results for a catalog search within one brand
	BrandSearchLimit = 10
)

// Enrichment limits
const (
	// MinPageLength is the shortest body accepted as a real kit page
	MinPageLength = 512

	// MaxPageSize is the largest body read from the relay (8 MB)
	MaxPageSize = 8 * 1024 * 1024
)

// Record limits
const (
	// MaxProgress is the upper bound of kit progress
	MaxProgress = 100

	// DilutionTotal is what paint and thinner parts of a dilution must sum to
	DilutionTotal = 100
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Path constants
const (
	// DefaultConfigName is the config file name searched in $HOME and the working directory
	DefaultConfigName = ".kitstash"

	// DefaultStorePath is the default SQLite file for the record store
	DefaultStorePath = "~/.kitstash/kitstash.db"
)
