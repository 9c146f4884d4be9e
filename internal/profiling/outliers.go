package profiling

import (
	"math"
	"sort"

	"github.com/tablens/tablens/pkg/constants"
	"github.com/tablens/tablens/pkg/models"

	mathutil "github.com/tablens/tablens/internal/utils/math"
)

// DetectOutliers flags numeric cells whose absolute z-score exceeds 2.5.
// Columns with fewer than 4 numeric values, or a population standard
// deviation of 0, yield no outliers; constant columns are outlier-free by
// definition and the zero stddev would otherwise divide by zero. Results
// are sorted by descending absolute z-score and capped at 20.
func DetectOutliers(values []interface{}) []models.OutlierInfo {
	type numericCell struct {
		rowIndex int
		value    float64
	}

	cells := make([]numericCell, 0, len(values))
	numeric := make([]float64, 0, len(values))
	for i, v := range values {
		if f, ok := models.AsFloat(v); ok {
			cells = append(cells, numericCell{rowIndex: i, value: f})
			numeric = append(numeric, f)
		}
	}

	if len(numeric) < constants.OutlierMinSamples {
		return nil
	}

	mean := mathutil.Mean(numeric)
	stdDev := mathutil.PopulationStdDev(numeric)
	if stdDev == 0 {
		return nil
	}

	var outliers []models.OutlierInfo
	for _, cell := range cells {
		z := (cell.value - mean) / stdDev
		if math.Abs(z) > constants.OutlierZScoreCutoff {
			outliers = append(outliers, models.OutlierInfo{
				RowIndex: cell.rowIndex,
				Value:    cell.value,
				ZScore:   mathutil.Round(z, 2),
			})
		}
	}

	sort.SliceStable(outliers, func(i, j int) bool {
		return math.Abs(outliers[i].ZScore) > math.Abs(outliers[j].ZScore)
	})

	if len(outliers) > constants.MaxOutliersPerColumn {
		outliers = outliers[:constants.MaxOutliersPerColumn]
	}
	return outliers
}
