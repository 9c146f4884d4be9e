package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tablens/tablens/pkg/models"
)

func TestComputeQualityScoreCleanDataset(t *testing.T) {
	result := &models.AnalysisResult{
		RowCount:    10,
		ColumnCount: 3,
		NullCounts:  map[string]int{"a": 0, "b": 0, "c": 0},
		ColumnTypes: map[string]models.ColumnType{
			"a": models.ColumnTypeString,
			"b": models.ColumnTypeNumber,
			"c": models.ColumnTypeString,
		},
	}
	assert.Equal(t, 100, ComputeQualityScore(result))
}

func TestComputeQualityScoreDeductions(t *testing.T) {
	// 10% nulls (-5), 10% duplicates (-20), 20% issues (-30) = 45.
	result := &models.AnalysisResult{
		RowCount:       10,
		ColumnCount:    2,
		NullCounts:     map[string]int{"a": 2, "b": 0},
		DuplicateCount: 1,
		ColumnTypes: map[string]models.ColumnType{
			"a": models.ColumnTypeString,
			"b": models.ColumnTypeString,
		},
		ContextualIssues: []models.ContextualIssue{
			{Column: "a", RowIndex: 0},
			{Column: "a", RowIndex: 1},
		},
	}
	assert.Equal(t, 45, ComputeQualityScore(result))
}

func TestComputeQualityScoreDiversityBonus(t *testing.T) {
	// 20% nulls (-10) plus the +5 bonus for more than 3 distinct types.
	result := &models.AnalysisResult{
		RowCount:    10,
		ColumnCount: 4,
		NullCounts:  map[string]int{"a": 8, "b": 0, "c": 0, "d": 0},
		ColumnTypes: map[string]models.ColumnType{
			"a": models.ColumnTypeString,
			"b": models.ColumnTypeNumber,
			"c": models.ColumnTypeDate,
			"d": models.ColumnTypeEmail,
		},
	}
	assert.Equal(t, 95, ComputeQualityScore(result))
}

func TestComputeQualityScoreBonusCannotExceedHundred(t *testing.T) {
	result := &models.AnalysisResult{
		RowCount:    5,
		ColumnCount: 4,
		NullCounts:  map[string]int{"a": 0, "b": 0, "c": 0, "d": 0},
		ColumnTypes: map[string]models.ColumnType{
			"a": models.ColumnTypeString,
			"b": models.ColumnTypeNumber,
			"c": models.ColumnTypeDate,
			"d": models.ColumnTypeEmail,
		},
	}
	assert.Equal(t, 100, ComputeQualityScore(result))
}

func TestComputeQualityScoreClampsAtZero(t *testing.T) {
	issues := make([]models.ContextualIssue, 200)
	result := &models.AnalysisResult{
		RowCount:         10,
		ColumnCount:      1,
		NullCounts:       map[string]int{"a": 10},
		DuplicateCount:   9,
		ColumnTypes:      map[string]models.ColumnType{"a": models.ColumnTypeString},
		ContextualIssues: issues,
	}
	assert.Equal(t, 0, ComputeQualityScore(result))
}

func TestComputeQualityScoreEmptyDataset(t *testing.T) {
	result := &models.AnalysisResult{
		ColumnTypes: map[string]models.ColumnType{},
	}
	assert.Equal(t, 100, ComputeQualityScore(result))
}
