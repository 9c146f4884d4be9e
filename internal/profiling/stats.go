package profiling

import (
	"github.com/tablens/tablens/pkg/models"

	mathutil "github.com/tablens/tablens/internal/utils/math"
)

// ComputeColumnStats computes descriptive statistics for one column given
// its inferred type. Pure function of (values, type); unparseable cells in
// a numeric column are excluded from the aggregates rather than reported.
func ComputeColumnStats(values []interface{}, colType models.ColumnType) *models.ColumnStats {
	nonNull := make([]interface{}, 0, len(values))
	for _, v := range values {
		if !models.IsMissing(v) {
			nonNull = append(nonNull, v)
		}
	}

	stats := &models.ColumnStats{
		Type:          colType,
		Count:         len(nonNull),
		DistinctCount: countDistinct(nonNull),
	}

	if colType == models.ColumnTypeNumber {
		numeric := make([]float64, 0, len(nonNull))
		for _, v := range nonNull {
			if f, ok := models.AsFloat(v); ok {
				numeric = append(numeric, f)
			}
		}
		if len(numeric) > 0 {
			stats.Numeric = &models.NumericStats{
				Min:    mathutil.Min(numeric),
				Max:    mathutil.Max(numeric),
				Mean:   mathutil.Round(mathutil.Mean(numeric), 2),
				Median: mathutil.Median(numeric),
				StdDev: mathutil.Round(mathutil.PopulationStdDev(numeric), 2),
				Q1:     mathutil.Quartile(numeric, 0.25),
				Q3:     mathutil.Quartile(numeric, 0.75),
			}
		}
		return stats
	}

	stats.TopValue, stats.TopValueCount = mostFrequent(nonNull)

	if colType == models.ColumnTypeString {
		totalLen := 0
		for _, v := range nonNull {
			totalLen += len(models.AsString(v))
		}
		if len(nonNull) > 0 {
			stats.AvgLength = mathutil.Round(float64(totalLen)/float64(len(nonNull)), 1)
		}
	}

	return stats
}

func countDistinct(values []interface{}) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[models.AsString(v)] = struct{}{}
	}
	return len(seen)
}

// mostFrequent returns the most common value and its frequency. Ties break
// toward the value encountered first in iteration order.
func mostFrequent(values []interface{}) (interface{}, int) {
	if len(values) == 0 {
		return nil, 0
	}

	counts := make(map[string]int, len(values))
	firstSeen := make(map[string]int, len(values))
	originals := make(map[string]interface{}, len(values))

	for i, v := range values {
		key := models.AsString(v)
		counts[key]++
		if _, ok := firstSeen[key]; !ok {
			firstSeen[key] = i
			originals[key] = v
		}
	}

	var topKey string
	topCount := -1
	for key, count := range counts {
		if count > topCount || (count == topCount && firstSeen[key] < firstSeen[topKey]) {
			topKey = key
			topCount = count
		}
	}

	return originals[topKey], topCount
}
