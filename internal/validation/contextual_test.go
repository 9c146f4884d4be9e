package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablens/tablens/pkg/models"
)

func fixedNow() time.Time {
	return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
}

func newTestContextualValidator() *ContextualValidator {
	v := NewContextualValidator(nil)
	v.nowFn = fixedNow
	return v
}

func TestContextualValidatorAge(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"age"},
		Rows: []models.Row{
			{"age": "-5"},
			{"age": "30"},
			{"age": "45"},
			{"age": "200"},
			{"age": "130"},
		},
	}
	types := map[string]models.ColumnType{"age": models.ColumnTypeNumber}

	issues := newTestContextualValidator().Validate(ds, types)
	require.Len(t, issues, 3)

	assert.Equal(t, 0, issues[0].RowIndex)
	assert.Equal(t, "Negative age value", issues[0].Issue)
	assert.Equal(t, models.SeverityCritical, issues[0].Severity)

	assert.Equal(t, 3, issues[1].RowIndex)
	assert.Equal(t, "Unrealistic age value", issues[1].Issue)
	assert.Equal(t, models.SeverityHigh, issues[1].Severity)

	assert.Equal(t, 4, issues[2].RowIndex)
	assert.Equal(t, "Unusually high age", issues[2].Issue)
	assert.Equal(t, models.SeverityMedium, issues[2].Severity)
}

func TestContextualValidatorDates(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"birth_date"},
		Rows: []models.Row{
			{"birth_date": "1990-06-15"},
			{"birth_date": "2030-01-01"},
			{"birth_date": "1850-01-01"},
			{"birth_date": "not-a-date"},
		},
	}
	types := map[string]models.ColumnType{"birth_date": models.ColumnTypeDate}

	issues := newTestContextualValidator().Validate(ds, types)
	require.Len(t, issues, 3)

	assert.Equal(t, "Birth date is in the future", issues[0].Issue)
	assert.Equal(t, models.SeverityCritical, issues[0].Severity)

	assert.Equal(t, "Date before 1900", issues[1].Issue)
	assert.Equal(t, models.SeverityMedium, issues[1].Severity)

	assert.Equal(t, "Invalid date format", issues[2].Issue)
	assert.Equal(t, models.SeverityHigh, issues[2].Severity)
}

func TestContextualValidatorFarFutureDate(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"expiry_date"},
		Rows:    []models.Row{{"expiry_date": "2040-01-01"}},
	}
	types := map[string]models.ColumnType{"expiry_date": models.ColumnTypeDate}

	issues := newTestContextualValidator().Validate(ds, types)
	require.Len(t, issues, 1)
	assert.Equal(t, "Date more than 10 years in the future", issues[0].Issue)
}

func TestContextualValidatorEmailAndPhone(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"email", "phone"},
		Rows: []models.Row{
			{"email": "alice@example.com", "phone": "+14155552671"},
			{"email": "not-an-email", "phone": "123"},
		},
	}
	types := map[string]models.ColumnType{
		"email": models.ColumnTypeEmail,
		"phone": models.ColumnTypePhone,
	}

	issues := newTestContextualValidator().Validate(ds, types)
	require.Len(t, issues, 2)

	assert.Equal(t, "Invalid email format", issues[0].Issue)
	assert.Equal(t, 1, issues[0].RowIndex)
	assert.Equal(t, "Invalid phone number", issues[1].Issue)
	assert.Equal(t, 1, issues[1].RowIndex)
}

func TestContextualValidatorSalaryAndPercentage(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"salary", "discount_rate"},
		Rows: []models.Row{
			{"salary": "-100", "discount_rate": "15"},
			{"salary": "20000000", "discount_rate": "150"},
		},
	}
	types := map[string]models.ColumnType{
		"salary":        models.ColumnTypeNumber,
		"discount_rate": models.ColumnTypeNumber,
	}

	issues := newTestContextualValidator().Validate(ds, types)
	require.Len(t, issues, 3)

	assert.Equal(t, "Negative salary value", issues[0].Issue)
	assert.Equal(t, models.SeverityHigh, issues[0].Severity)
	assert.Equal(t, "Unusually high salary", issues[1].Issue)
	assert.Equal(t, "Percentage outside the 0-100 range", issues[2].Issue)
}

func TestContextualValidatorPercentSuffixWithoutColumnHint(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"growth"},
		Rows:    []models.Row{{"growth": "140%"}},
	}
	types := map[string]models.ColumnType{"growth": models.ColumnTypeString}

	issues := newTestContextualValidator().Validate(ds, types)
	require.Len(t, issues, 1)
	assert.Equal(t, "Percentage outside the 0-100 range", issues[0].Issue)
}

func TestContextualValidatorSkipsMissingCells(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"age", "email"},
		Rows:    []models.Row{{"age": nil, "email": ""}},
	}
	types := map[string]models.ColumnType{
		"age":   models.ColumnTypeNumber,
		"email": models.ColumnTypeEmail,
	}

	assert.Empty(t, newTestContextualValidator().Validate(ds, types))
}

func TestContextualValidatorCapsIssues(t *testing.T) {
	rows := make([]models.Row, 1200)
	for i := range rows {
		rows[i] = models.Row{"age": "-1"}
	}
	ds := &models.Dataset{Columns: []string{"age"}, Rows: rows}
	types := map[string]models.ColumnType{"age": models.ColumnTypeNumber}

	issues := newTestContextualValidator().Validate(ds, types)
	assert.Len(t, issues, 1000)
}
