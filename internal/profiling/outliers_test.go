package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectOutliers(t *testing.T) {
	// Nine 1s and one 100: the 100 sits exactly 3 standard deviations out.
	values := []interface{}{"1", "1", "1", "1", "1", "1", "1", "1", "1", "100"}

	outliers := DetectOutliers(values)
	require.Len(t, outliers, 1)
	assert.Equal(t, 9, outliers[0].RowIndex)
	assert.Equal(t, 100.0, outliers[0].Value)
	assert.Equal(t, 3.0, outliers[0].ZScore)
}

func TestDetectOutliersConstantColumn(t *testing.T) {
	values := []interface{}{"5", "5", "5", "5", "5"}
	assert.Empty(t, DetectOutliers(values))
}

func TestDetectOutliersTooFewSamples(t *testing.T) {
	values := []interface{}{"1", "2", "1000"}
	assert.Empty(t, DetectOutliers(values))
}

func TestDetectOutliersIgnoresNonNumericCells(t *testing.T) {
	values := []interface{}{"1", "n/a", "1", "1", nil, "1", "1", "1", "1", "1", "1", "100"}

	outliers := DetectOutliers(values)
	require.Len(t, outliers, 1)
	assert.Equal(t, 11, outliers[0].RowIndex)
}

func TestDetectOutliersSortedByMagnitude(t *testing.T) {
	values := []interface{}{
		"10", "10", "10", "10", "10", "10", "10", "10", "10", "10",
		"10", "10", "10", "10", "10", "10", "10", "10", "500", "-600",
	}

	outliers := DetectOutliers(values)
	require.Len(t, outliers, 2)
	assert.Equal(t, 19, outliers[0].RowIndex)
	assert.Equal(t, 18, outliers[1].RowIndex)
}
