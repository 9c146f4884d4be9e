package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tablens/tablens/pkg/models"
)

func TestInferColumnType(t *testing.T) {
	tests := []struct {
		name     string
		values   []interface{}
		expected models.ColumnType
	}{
		{
			name:     "empty column",
			values:   []interface{}{nil, "", "  "},
			expected: models.ColumnTypeUnknown,
		},
		{
			name:     "boolean literals",
			values:   []interface{}{true, false, true},
			expected: models.ColumnTypeBoolean,
		},
		{
			name:     "boolean takes priority over number",
			values:   []interface{}{"1", "0", "1", "0", "true"},
			expected: models.ColumnTypeBoolean,
		},
		{
			name:     "numeric strings",
			values:   []interface{}{"1.5", "2", "3", "oops", "4"},
			expected: models.ColumnTypeNumber,
		},
		{
			name:     "numbers with nulls ignored",
			values:   []interface{}{nil, "10", "20", "", "30"},
			expected: models.ColumnTypeNumber,
		},
		{
			name:     "iso dates",
			values:   []interface{}{"2024-01-01", "2024-02-15", "2024-03-20", "garbage"},
			expected: models.ColumnTypeDate,
		},
		{
			name:     "us dates",
			values:   []interface{}{"01/15/2024", "02/20/2024", "03/25/2024"},
			expected: models.ColumnTypeDate,
		},
		{
			name:     "emails",
			values:   []interface{}{"a@b.com", "c@d.org", "e@f.io", "not-an-email", "g@h.com"},
			expected: models.ColumnTypeEmail,
		},
		{
			name:     "formatted phone numbers",
			values:   []interface{}{"(415) 555-2671", "(212) 555-0198", "(646) 555-1234"},
			expected: models.ColumnTypePhone,
		},
		{
			name:     "urls",
			values:   []interface{}{"https://example.com", "https://example.org/path", "http://localhost:8080"},
			expected: models.ColumnTypeURL,
		},
		{
			name:     "mixed text",
			values:   []interface{}{"alpha", "beta", "gamma"},
			expected: models.ColumnTypeString,
		},
		{
			name:     "below date threshold falls through to string",
			values:   []interface{}{"2024-01-01", "x", "y"},
			expected: models.ColumnTypeString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferColumnType(tt.values))
		})
	}
}

func TestInferColumnTypeDeterministic(t *testing.T) {
	values := []interface{}{"1", "2", "3", "almost"}
	first := InferColumnType(values)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, InferColumnType(values))
	}
}

func TestInferColumnTypeSamplesFirstHundred(t *testing.T) {
	// 100 numbers followed by text: only the sample counts.
	values := make([]interface{}, 0, 150)
	for i := 0; i < 100; i++ {
		values = append(values, "42")
	}
	for i := 0; i < 50; i++ {
		values = append(values, "text")
	}
	assert.Equal(t, models.ColumnTypeNumber, InferColumnType(values))
}

func TestInferTypes(t *testing.T) {
	ds := &models.Dataset{
		Columns: []string{"name", "age"},
		Rows: []models.Row{
			{"name": "Ada", "age": "36"},
			{"name": "Grace", "age": "45"},
		},
	}

	types := InferTypes(ds)
	assert.Equal(t, models.ColumnTypeString, types["name"])
	assert.Equal(t, models.ColumnTypeNumber, types["age"])
}

func TestParseDate(t *testing.T) {
	for _, valid := range []string{"2024-06-15", "06/15/2024", "15-06-2024", "2024-06-15T10:30:00Z"} {
		_, ok := ParseDate(valid)
		assert.True(t, ok, "expected %q to parse", valid)
	}
	for _, invalid := range []string{"", "soon", "2024-13-45"} {
		_, ok := ParseDate(invalid)
		assert.False(t, ok, "expected %q to fail", invalid)
	}
}
