package models

import "time"

// ColumnType is the inferred type tag for a column
type ColumnType string

const (
	ColumnTypeBoolean ColumnType = "boolean"
	ColumnTypeNumber  ColumnType = "number"
	ColumnTypeDate    ColumnType = "date"
	ColumnTypeEmail   ColumnType = "email"
	ColumnTypePhone   ColumnType = "phone"
	ColumnTypeURL     ColumnType = "url"
	ColumnTypeString  ColumnType = "string"
	ColumnTypeUnknown ColumnType = "unknown"
)

// Severity classifies how serious a detected issue is
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// NumericStats holds aggregates computed for number-typed columns.
// Mean and StdDev are rounded to 2 decimals; StdDev is the population
// standard deviation; Q1/Q3 use index truncation, not interpolation.
type NumericStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// ColumnStats holds per-column descriptive statistics. Numeric is set only
// for number-typed columns; TopValue only for non-numeric ones; AvgLength
// only for string columns.
type ColumnStats struct {
	Type          ColumnType    `json:"type"`
	Count         int           `json:"count"`
	DistinctCount int           `json:"distinct_count"`
	Numeric       *NumericStats `json:"numeric,omitempty"`
	TopValue      interface{}   `json:"top_value,omitempty"`
	TopValueCount int           `json:"top_value_count,omitempty"`
	AvgLength     float64       `json:"avg_length,omitempty"`
}

// OutlierInfo identifies one outlying numeric cell
type OutlierInfo struct {
	RowIndex int     `json:"row_index"`
	Value    float64 `json:"value"`
	ZScore   float64 `json:"z_score"`
}

// ContextualIssue is a defect detected from a single cell's value and its
// column's semantic role
type ContextualIssue struct {
	Column     string      `json:"column"`
	RowIndex   int         `json:"row_index"`
	Value      interface{} `json:"value"`
	Issue      string      `json:"issue"`
	Severity   Severity    `json:"severity"`
	Suggestion string      `json:"suggestion"`
}

// CrossFieldIssue is a defect detected from the relationship between two or
// more columns in the same row
type CrossFieldIssue struct {
	Columns    []string `json:"columns"`
	RowIndex   int      `json:"row_index"`
	Issue      string   `json:"issue"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion"`
}

// AnalysisResult is the immutable snapshot produced by one profiling pass.
// It is superseded, never mutated, by the next pass over the same dataset.
type AnalysisResult struct {
	DatasetID        string                   `json:"dataset_id,omitempty"`
	RowCount         int                      `json:"row_count"`
	ColumnCount      int                      `json:"column_count"`
	NullCounts       map[string]int           `json:"null_counts"`
	DuplicateCount   int                      `json:"duplicate_count"`
	ColumnTypes      map[string]ColumnType    `json:"column_types"`
	ColumnStats      map[string]*ColumnStats  `json:"column_stats"`
	Outliers         map[string][]OutlierInfo `json:"outliers"`
	ContextualIssues []ContextualIssue        `json:"contextual_issues"`
	CrossFieldIssues []CrossFieldIssue        `json:"cross_field_issues"`
	QualityScore     int                      `json:"quality_score"`
	AnalyzedAt       time.Time                `json:"analyzed_at"`
}

// TotalNulls sums null counts across all columns
func (r *AnalysisResult) TotalNulls() int {
	total := 0
	for _, n := range r.NullCounts {
		total += n
	}
	return total
}

// IssueCount sums contextual and cross-field issue counts
func (r *AnalysisResult) IssueCount() int {
	return len(r.ContextualIssues) + len(r.CrossFieldIssues)
}
