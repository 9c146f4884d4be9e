package quality

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/models"
)

func employeeDataset() *models.Dataset {
	return &models.Dataset{
		ID:      "employees",
		Columns: []string{"name", "age", "email", "salary"},
		Rows: []models.Row{
			{"name": "alice", "age": "34", "email": "alice@example.com", "salary": "70000"},
			{"name": "bob", "age": "29", "email": "bob@example.com", "salary": "55000"},
			{"name": "", "age": "-2", "email": "not-an-email", "salary": "60000"},
			{"name": "bob", "age": "29", "email": "bob@example.com", "salary": "55000"},
			{"name": "dana", "age": "41", "email": "dana@example.com", "salary": "62000"},
			{"name": "erin", "age": "38", "email": "erin@example.com", "salary": "58000"},
			{"name": "frank", "age": "45", "email": "frank@example.com", "salary": "81000"},
			{"name": "grace", "age": "31", "email": "grace@example.com", "salary": "64000"},
			{"name": "henry", "age": "27", "email": "henry@example.com", "salary": "52000"},
			{"name": "iris", "age": "36", "email": "iris@example.com", "salary": "69000"},
		},
	}
}

func TestEngineAnalyze(t *testing.T) {
	engine := NewEngine(nil, nil)

	result, err := engine.Analyze(context.Background(), employeeDataset(), nil)
	require.NoError(t, err)

	assert.Equal(t, "employees", result.DatasetID)
	assert.Equal(t, 10, result.RowCount)
	assert.Equal(t, 4, result.ColumnCount)
	assert.Equal(t, 1, result.NullCounts["name"])
	assert.Equal(t, 0, result.NullCounts["email"])
	assert.Equal(t, 1, result.DuplicateCount)

	assert.Equal(t, models.ColumnTypeString, result.ColumnTypes["name"])
	assert.Equal(t, models.ColumnTypeNumber, result.ColumnTypes["age"])
	assert.Equal(t, models.ColumnTypeEmail, result.ColumnTypes["email"])
	assert.Equal(t, models.ColumnTypeNumber, result.ColumnTypes["salary"])

	require.NotNil(t, result.ColumnStats["age"])
	require.NotNil(t, result.ColumnStats["age"].Numeric)

	// Row 2 carries a negative age and a malformed address.
	require.Len(t, result.ContextualIssues, 2)
	assert.Equal(t, 2, result.ContextualIssues[0].RowIndex)
	assert.Equal(t, "Negative age value", result.ContextualIssues[0].Issue)
	assert.Equal(t, "Invalid email format", result.ContextualIssues[1].Issue)

	// 2.5% nulls, 10% duplicates, 20% issues: 100 - 1.25 - 20 - 30 = 48.75.
	assert.Equal(t, 49, result.QualityScore)
	assert.False(t, result.AnalyzedAt.IsZero())
}

func TestEngineAnalyzeEmptyDataset(t *testing.T) {
	engine := NewEngine(nil, nil)

	_, err := engine.Analyze(context.Background(), &models.Dataset{Columns: []string{"a"}}, nil)
	assert.ErrorIs(t, err, errors.ErrEmptyDataset)

	_, err = engine.Analyze(context.Background(), &models.Dataset{Rows: []models.Row{{}}}, nil)
	assert.ErrorIs(t, err, errors.ErrEmptyHeaders)

	_, err = engine.Analyze(context.Background(), nil, nil)
	assert.ErrorIs(t, err, errors.ErrEmptyHeaders)
}

func TestEngineAnalyzeProgressCheckpoints(t *testing.T) {
	engine := NewEngine(nil, nil)

	type checkpoint struct {
		stage   string
		percent int
	}
	var seen []checkpoint

	_, err := engine.Analyze(context.Background(), employeeDataset(), func(stage string, percent int) {
		seen = append(seen, checkpoint{stage, percent})
	})
	require.NoError(t, err)

	assert.Equal(t, []checkpoint{
		{"type_inference", 15},
		{"statistics", 40},
		{"duplicates", 55},
		{"outliers", 70},
		{"contextual_validation", 85},
		{"cross_field_validation", 95},
		{"complete", 100},
	}, seen)
}

func TestEngineAnalyzeDisabledPasses(t *testing.T) {
	engine := NewEngine(&EngineConfig{
		OutlierDetection:     false,
		ContextualValidation: false,
		CrossFieldValidation: false,
	}, nil)

	result, err := engine.Analyze(context.Background(), employeeDataset(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Outliers)
	assert.Empty(t, result.ContextualIssues)
	assert.Empty(t, result.CrossFieldIssues)
}

func TestEngineAnalyzeCancelledContext(t *testing.T) {
	engine := NewEngine(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Analyze(ctx, employeeDataset(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngineAnalyzeDoesNotMutateDataset(t *testing.T) {
	engine := NewEngine(nil, nil)
	ds := employeeDataset()
	before := ds.Clone()

	_, err := engine.Analyze(context.Background(), ds, nil)
	require.NoError(t, err)
	assert.Equal(t, before.Rows, ds.Rows)
	assert.Equal(t, before.Columns, ds.Columns)
}
