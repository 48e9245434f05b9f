package schema

import "time"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for session and history storage.
	DatabaseBackend string

	// ShareMode represents how a share action is delivered.
	ShareMode string

	// ShareStatus represents the outcome of a share attempt.
	ShareStatus string

	// LogFormat represents the encoding of diagnostic logs.
	LogFormat string
)

// MaxCategoryScore is the fixed ceiling of every category score.
const MaxCategoryScore = 5

// Star thresholds used to classify a result for styling.
const (
	HighScoreStars = 4 // stars >= 4
	LowScoreStars  = 2 // stars <= 2
)

// AckTTL is how long a "copied" acknowledgment stays visible.
const AckTTL = 3 * time.Second

// DefaultRevealDelay is the pause before a result is revealed in text mode.
const DefaultRevealDelay = 800 * time.Millisecond

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis" // sessions only
	NoneBackend       DatabaseBackend = "none"
)

// All share modes supported.
const (
	AutoShare      ShareMode = "auto" // default
	NativeShare    ShareMode = "native"
	ClipboardShare ShareMode = "clipboard"
	ManualShare    ShareMode = "manual"
)

// All share statuses.
const (
	SharedStatus ShareStatus = "shared"
	CopiedStatus ShareStatus = "copied"
	ManualStatus ShareStatus = "manual"
	FailedStatus ShareStatus = "failed"
)

// All log formats supported.
const (
	ConsoleLog LogFormat = "console" // default
	JSONLog    LogFormat = "json"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidSessionBackends lists all valid session backends.
var ValidSessionBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	NoneBackend:       {},
}

// ValidHistoryBackends lists all valid history backends.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidShareModes lists all valid share modes.
var ValidShareModes = map[ShareMode]struct{}{
	AutoShare:      {},
	NativeShare:    {},
	ClipboardShare: {},
	ManualShare:    {},
}

// ValidLogFormats lists all valid log formats.
var ValidLogFormats = map[LogFormat]struct{}{
	ConsoleLog: {},
	JSONLog:    {},
}
