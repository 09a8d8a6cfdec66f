// Package constants provides shared constants used throughout the rowform codebase.
// This includes timeouts, limits, matching thresholds, file permissions, and other
// configuration values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// PrefetchTimeout is the timeout for loading catalog entries from a backing source
	PrefetchTimeout = 30 * time.Second

	// BatchTimeout is the timeout for normalizing a full batch
	BatchTimeout = 5 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ServerReadTimeout is the read timeout for the HTTP API server
	ServerReadTimeout = 15 * time.Second

	// ServerWriteTimeout is the write timeout for the HTTP API server
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the idle timeout for the HTTP API server
	ServerIdleTimeout = 60 * time.Second

	// ServerShutdownTimeout is the grace period for in-flight requests on shutdown
	ServerShutdownTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like credentials (rw-------)
	SecureFilePermissions = 0600
)

// Matching constants tune the reconciler. Fuzzy matching is deliberately
// conservative: the edit-distance threshold scales with the length of the
// normalized input so that short values almost never fuzzy-match.
const (
	// FuzzyShortLength is the inclusive length bound for the tightest threshold
	FuzzyShortLength = 4

	// FuzzyMediumLength is the inclusive length bound for the middle threshold
	FuzzyMediumLength = 7

	// FuzzyShortDistance is the max edit distance for short values
	FuzzyShortDistance = 1

	// FuzzyMediumDistance is the max edit distance for medium values
	FuzzyMediumDistance = 2

	// FuzzyLongDistance is the max edit distance for everything longer
	FuzzyLongDistance = 3

	// MinCompoundParts is the minimum number of non-empty parts required
	// before compound matching applies
	MinCompoundParts = 2
)

// Template constants tune template evaluation
const (
	// TemplatePadRune pads alphanumeric values that are shorter than the
	// requested modifier width
	TemplatePadRune = 'X'

	// TemplateZeroRune pads numeric values that are shorter than the
	// requested modifier width
	TemplateZeroRune = '0'

	// SequenceVariable is the reserved template variable for the item's
	// 1-based position in its batch
	SequenceVariable = "sequence"
)

// Coercion constants tune assembly-time value coercion
const (
	// DefaultQuantity is substituted when a quantity value is missing or unusable
	DefaultQuantity = 1
)

// Limit constants define various limits and capacities
const (
	// DefaultConcurrency is the default number of items normalized in parallel
	DefaultConcurrency = 4

	// MaxConcurrency is the upper bound for the batch worker pool
	MaxConcurrency = 32

	// MaxBatchErrorMessages caps how many leading error messages a batch
	// result carries
	MaxBatchErrorMessages = 10

	// DefaultPageSize is the default number of items per page for paginated results
	DefaultPageSize = 100

	// MaxPageSize is the maximum allowed page size for paginated results
	MaxPageSize = 1000

	// ChannelBufferSize is the default buffer size for channels
	ChannelBufferSize = 100

	// MaxValueLength is the maximum allowed length for a raw field value
	MaxValueLength = 4096

	// MaxBatchItems is the maximum number of items accepted in one batch
	MaxBatchItems = 10000
)

// Network constants
const (
	// DefaultServerHost is the default bind address for the HTTP API
	DefaultServerHost = "127.0.0.1"

	// DefaultServerPort is the default port for the HTTP API
	DefaultServerPort = 8480

	// MaxRequestBodySize is the maximum accepted request body in bytes (8 MB)
	MaxRequestBodySize = 8 * 1024 * 1024
)

// Default values
const (
	// DefaultEnvironment is the default environment (development, staging, production)
	DefaultEnvironment = "production"

	// DefaultProfileName is the profile used when none is specified
	DefaultProfileName = "default"
)

// Path constants
const (
	// DefaultConfigPath is the default path for configuration files
	DefaultConfigPath = "~/.rowform/config.yaml"

	// DefaultCatalogDir is the default directory for file-backed catalogs
	DefaultCatalogDir = "~/.rowform/catalogs"

	// DefaultDatabasePath is the default path for the embedded SQLite database
	DefaultDatabasePath = "~/.rowform/rowform.db"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)

// Error messages
const (
	// ErrMsgNamespaceNotFound is the standard error message for missing namespaces
	ErrMsgNamespaceNotFound = "namespace not found"

	// ErrMsgProfileNotFound is the standard error message for missing profiles
	ErrMsgProfileNotFound = "profile not found"

	// ErrMsgCatalogUnavailable is the standard error message for source failures
	ErrMsgCatalogUnavailable = "catalog source unavailable"

	// ErrMsgTimeout is the standard error message for timeouts
	ErrMsgTimeout = "operation timed out"
)
