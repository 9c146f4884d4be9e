package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablens/tablens/pkg/models"
)

func newTestCrossFieldValidator() *CrossFieldValidator {
	v := NewCrossFieldValidator(nil)
	v.nowFn = fixedNow
	return v
}

func TestCrossFieldAgeBirthDateMismatch(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"age", "birth_date"},
		Rows: []models.Row{
			{"age": "36", "birth_date": "1990-06-15"},
			{"age": "20", "birth_date": "1990-06-15"},
		},
	}

	issues := newTestCrossFieldValidator().Validate(ds)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].RowIndex)
	assert.Equal(t, []string{"age", "birth_date"}, issues[0].Columns)
	assert.Equal(t, models.SeverityHigh, issues[0].Severity)
}

func TestCrossFieldAgeBirthDateOffByOneTolerated(t *testing.T) {
	// Year subtraction ignores whether the birthday has passed, so a one
	// year discrepancy is accepted.
	ds := &models.Dataset{
		Columns: []string{"age", "birth_date"},
		Rows:    []models.Row{{"age": "35", "birth_date": "1990-11-20"}},
	}
	assert.Empty(t, newTestCrossFieldValidator().Validate(ds))
}

func TestCrossFieldStartAfterEnd(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"start_date", "end_date"},
		Rows: []models.Row{
			{"start_date": "2024-03-01", "end_date": "2024-01-01"},
			{"start_date": "2024-01-01", "end_date": "2024-03-01"},
		},
	}

	issues := newTestCrossFieldValidator().Validate(ds)
	require.Len(t, issues, 1)
	assert.Equal(t, 0, issues[0].RowIndex)
	assert.Equal(t, models.SeverityCritical, issues[0].Severity)
	assert.Equal(t, []string{"start_date", "end_date"}, issues[0].Columns)
}

func TestCrossFieldDateRangeCartesianProduct(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"contract_start_date", "trial_end_date", "support_end_date"},
		Rows: []models.Row{
			{
				"contract_start_date": "2025-01-01",
				"trial_end_date":      "2024-06-01",
				"support_end_date":    "2024-09-01",
			},
		},
	}

	issues := newTestCrossFieldValidator().Validate(ds)
	assert.Len(t, issues, 2)
}

func TestCrossFieldSalaryExperience(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"salary", "years_experience"},
		Rows: []models.Row{
			{"salary": "25000", "years_experience": "15"},
			{"salary": "90000", "years_experience": "15"},
			{"salary": "25000", "years_experience": "5"},
		},
	}

	issues := newTestCrossFieldValidator().Validate(ds)
	require.Len(t, issues, 1)
	assert.Equal(t, 0, issues[0].RowIndex)
	assert.Equal(t, models.SeverityMedium, issues[0].Severity)
}

func TestCrossFieldMissingRoleColumnsNoIssues(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"name", "city"},
		Rows:    []models.Row{{"name": "alice", "city": "oslo"}},
	}
	assert.Empty(t, newTestCrossFieldValidator().Validate(ds))
}

func TestCrossFieldSkipsUnparseableCells(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"age", "birth_date"},
		Rows:    []models.Row{{"age": "thirty", "birth_date": "banana"}},
	}
	assert.Empty(t, newTestCrossFieldValidator().Validate(ds))
}
