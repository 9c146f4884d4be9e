package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(nil))
	assert.True(t, IsMissing(""))
	assert.True(t, IsMissing("   "))
	assert.False(t, IsMissing("0"))
	assert.False(t, IsMissing(0.0))
	assert.False(t, IsMissing(false))
}

func TestAsFloat(t *testing.T) {
	f, ok := AsFloat("42.5")
	require.True(t, ok)
	assert.Equal(t, 42.5, f)

	f, ok = AsFloat(" -7 ")
	require.True(t, ok)
	assert.Equal(t, -7.0, f)

	f, ok = AsFloat(3)
	require.True(t, ok)
	assert.Equal(t, 3.0, f)

	_, ok = AsFloat("")
	assert.False(t, ok)
	_, ok = AsFloat("twelve")
	assert.False(t, ok)
	_, ok = AsFloat(nil)
	assert.False(t, ok)
	_, ok = AsFloat(math.NaN())
	assert.False(t, ok)
	_, ok = AsFloat("NaN")
	assert.False(t, ok)
}

func TestAsString(t *testing.T) {
	assert.Equal(t, "", AsString(nil))
	assert.Equal(t, "hello", AsString("hello"))
	assert.Equal(t, "true", AsString(true))
	assert.Equal(t, "42", AsString(42))
	assert.Equal(t, "42.5", AsString(42.5))
	assert.Equal(t, "3", AsString(3.0))
}

func TestDatasetHelpers(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"a", "b"},
		Rows: []Row{
			{"a": "1", "b": "x"},
			{"a": "2", "b": "y"},
		},
	}

	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, 2, ds.ColumnCount())
	assert.True(t, ds.HasColumn("a"))
	assert.False(t, ds.HasColumn("z"))
	assert.Equal(t, []interface{}{"x", "y"}, ds.ColumnValues("b"))
}

func TestDatasetClone(t *testing.T) {
	ds := &Dataset{
		ID:      "orig",
		Columns: []string{"a"},
		Rows:    []Row{{"a": "1"}},
	}

	clone := ds.Clone()
	clone.Rows[0]["a"] = "changed"
	clone.Columns[0] = "renamed"

	assert.Equal(t, "1", ds.Rows[0]["a"])
	assert.Equal(t, "a", ds.Columns[0])
}
