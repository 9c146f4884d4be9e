package profiling

import (
	"math"

	"github.com/tablens/tablens/pkg/constants"
	"github.com/tablens/tablens/pkg/models"
)

// ComputeQualityScore rolls a completed analysis into a single 0-100
// integer. Deductions: 0.5 per null percentage point, 2 per duplicate
// percentage point, 1.5 per issue percentage point, plus a flat +5 when
// more than 3 distinct column types are present. The issue percentage is
// issue count over row count and is not capped at 100, so issue-heavy
// datasets clamp to 0 before the other penalties matter.
func ComputeQualityScore(result *models.AnalysisResult) int {
	score := 100.0

	totalCells := result.RowCount * result.ColumnCount
	if totalCells > 0 {
		nullPct := float64(result.TotalNulls()) / float64(totalCells) * 100
		score -= constants.ScoreNullWeight * nullPct
	}

	if result.RowCount > 0 {
		dupPct := float64(result.DuplicateCount) / float64(result.RowCount) * 100
		score -= constants.ScoreDuplicateWeight * dupPct

		issuePct := float64(result.IssueCount()) / float64(result.RowCount) * 100
		score -= constants.ScoreIssueWeight * issuePct
	}

	if countDistinctTypes(result.ColumnTypes) > constants.ScoreDiversityMinTypes {
		score += constants.ScoreDiversityBonus
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

func countDistinctTypes(types map[string]models.ColumnType) int {
	distinct := make(map[models.ColumnType]struct{}, len(types))
	for _, t := range types {
		distinct[t] = struct{}{}
	}
	return len(distinct)
}
