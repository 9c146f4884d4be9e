package constants

import "time"

// Column type tags produced by type inference
const (
	ColumnTypeBoolean = "boolean"
	ColumnTypeNumber  = "number"
	ColumnTypeDate    = "date"
	ColumnTypeEmail   = "email"
	ColumnTypePhone   = "phone"
	ColumnTypeURL     = "url"
	ColumnTypeString  = "string"
	ColumnTypeUnknown = "unknown"
)

// Issue severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Validation result kinds
const (
	ResultKindNull       = "null_values"
	ResultKindDuplicates = "duplicate_rows"
	ResultKindCustom     = "custom_rule"
)

// Fix action tags
const (
	FixActionRemoveRows       = "remove_rows"
	FixActionFillMean         = "fill_mean"
	FixActionFillMedian       = "fill_median"
	FixActionFillZero         = "fill_zero"
	FixActionFillUnknown      = "fill_unknown"
	FixActionFillEmpty        = "fill_empty"
	FixActionFillToday        = "fill_today"
	FixActionRemoveDuplicates = "remove_duplicates"
	FixActionMarkDuplicates   = "mark_duplicates"
	FixActionMarkIssues       = "mark_issues"
	FixActionClearInvalid     = "clear_invalid"
	FixActionAttemptFix       = "attempt_fix"
	FixActionCapValues        = "cap_values"
)

// Detection limits. Issue lists are truncated to these caps in detection
// order; they bound memory on pathological inputs.
const (
	MaxContextualIssues  = 1000
	MaxCrossFieldIssues  = 500
	MaxOutliersPerColumn = 20
	MaxAffectedRows      = 1000
)

// Type inference parameters
const (
	TypeSampleSize  = 100
	NumberThreshold = 0.8
	DateThreshold   = 0.7
	EmailThreshold  = 0.8
	PhoneThreshold  = 0.8
	URLThreshold    = 0.8
)

// Outlier detection parameters
const (
	OutlierMinSamples   = 4
	OutlierZScoreCutoff = 2.5
)

// Quality score weights
const (
	ScoreNullWeight        = 0.5
	ScoreDuplicateWeight   = 2.0
	ScoreIssueWeight       = 1.5
	ScoreDiversityBonus    = 5.0
	ScoreDiversityMinTypes = 3
)

// Storage backends
const (
	StorageBackendFile     = "file"
	StorageBackendRedis    = "redis"
	StorageBackendPostgres = "postgres"
)

// Server defaults
const (
	DefaultServerHost    = "0.0.0.0"
	DefaultServerPort    = 8080
	DefaultReadTimeout   = 30 * time.Second
	DefaultWriteTimeout  = 30 * time.Second
	DefaultShutdownGrace = 10 * time.Second
)
