package validation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tablens/tablens/internal/profiling"
	"github.com/tablens/tablens/pkg/constants"
	"github.com/tablens/tablens/pkg/models"
)

// EvaluateBuiltin runs the two built-in checks: null values per column and
// exact duplicate rows. These are the only auto-fixable results; custom
// rules always require manual review.
func (e *RuleEngine) EvaluateBuiltin(ds *models.Dataset) []*models.ValidationResult {
	var results []*models.ValidationResult
	now := e.nowFn()

	for _, col := range ds.Columns {
		var affected []int
		for i, row := range ds.Rows {
			if models.IsMissing(row[col]) {
				affected = append(affected, i)
				if len(affected) >= constants.MaxAffectedRows {
					break
				}
			}
		}
		if len(affected) == 0 {
			continue
		}
		results = append(results, &models.ValidationResult{
			ID:           uuid.NewString(),
			RuleName:     fmt.Sprintf("Null values in %s", col),
			Kind:         constants.ResultKindNull,
			Column:       col,
			Severity:     models.SeverityMedium,
			AffectedRows: affected,
			Description:  fmt.Sprintf("Column %q has %d empty values", col, len(affected)),
			Suggestion:   "Fill the empty cells or remove the rows",
			CanAutoFix:   true,
			CreatedAt:    now,
		})
	}

	dupes := profiling.DuplicateRowIndices(ds)
	if len(dupes) > 0 {
		if len(dupes) > constants.MaxAffectedRows {
			dupes = dupes[:constants.MaxAffectedRows]
		}
		results = append(results, &models.ValidationResult{
			ID:           uuid.NewString(),
			RuleName:     "Duplicate rows",
			Kind:         constants.ResultKindDuplicates,
			Severity:     models.SeverityMedium,
			AffectedRows: dupes,
			Description:  fmt.Sprintf("%d duplicate rows detected", len(dupes)),
			Suggestion:   "Remove or mark the duplicate rows",
			CanAutoFix:   true,
			CreatedAt:    now,
		})
	}

	return results
}
