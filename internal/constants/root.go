package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	AppName             = "daycount"
	DefaultKeyringUser  = "database-connection"
	IdentityKeyringUser = "signed-in-identity"
	DefaultConfigPath   = "~/.config/daycount/daycount.db"
	Version             = "v0.1.0"

	// DateFormat is the calendar date format used for countdown bounds (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// CountdownKeyPrefix is prepended to an identity to form its persistence key
	CountdownKeyPrefix = "countdowns_"

	// RefreshInterval is how often remaining-day counts are recomputed while signed in
	RefreshInterval = 60 * time.Second

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "daycount-"
	BackupFileSuffix = ".db"

	// Watch constants
	WatchLockfileName = "daycount-watch.lock"

	// Remote store constants
	RemoteTimeout       = 5 * time.Second
	MongoDatabaseName   = "daycount"
	MongoCollectionName = "countdowns"

	// Conflict Types
	ConflictDuplicateID   ConflictType = "duplicate_id"
	ConflictBlankLabel    ConflictType = "blank_label"
	ConflictInvalidDate   ConflictType = "invalid_date"
	ConflictInvertedRange ConflictType = "inverted_range"
	ConflictStaleTotal    ConflictType = "stale_total"
	ConflictNegativeTotal ConflictType = "negative_total"
)

// Session States
const (
	StateSignedOut SessionState = iota
	StateCountdowns
	StateCalculator
	StateConfirmDelete
	StateConfirmClear
)
