package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/internal/profiling"
	"github.com/tablens/tablens/pkg/constants"
	"github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/models"

	mathutil "github.com/tablens/tablens/internal/utils/math"
)

// FixApplicator turns a ValidationResult plus a chosen FixOption into a
// new dataset. Every transform is pure: the input dataset is cloned, never
// mutated. Because the affected-row list is fixed at detection time,
// reapplying the same fix to an already-fixed dataset is a no-op for rows
// that no longer match the original condition.
type FixApplicator struct {
	logger *logrus.Logger
	nowFn  func() time.Time
}

// NewFixApplicator creates a fix applicator
func NewFixApplicator(logger *logrus.Logger) *FixApplicator {
	if logger == nil {
		logger = logrus.New()
	}
	return &FixApplicator{
		logger: logger,
		nowFn:  time.Now,
	}
}

// GenerateFixOptions enumerates the remedies applicable to one validation
// result given the affected column's inferred type. Options are advisory
// until applied.
func (a *FixApplicator) GenerateFixOptions(result *models.ValidationResult, colType models.ColumnType) []models.FixOption {
	affected := len(result.AffectedRows)

	option := func(action, name, description string) models.FixOption {
		return models.FixOption{
			ID:          uuid.NewString(),
			Name:        name,
			Description: description,
			Action:      action,
			Preview:     fmt.Sprintf("%s, affecting %d rows", name, affected),
		}
	}

	switch result.Kind {
	case constants.ResultKindNull:
		switch colType {
		case models.ColumnTypeNumber:
			return []models.FixOption{
				option(constants.FixActionFillMean, "Fill with mean", "Replace empty cells with the mean of the valid values"),
				option(constants.FixActionFillMedian, "Fill with median", "Replace empty cells with the median of the valid values"),
				option(constants.FixActionFillZero, "Fill with zero", "Replace empty cells with 0"),
				option(constants.FixActionRemoveRows, "Remove rows", "Delete every row with an empty cell in this column"),
			}
		case models.ColumnTypeDate:
			return []models.FixOption{
				option(constants.FixActionFillToday, "Fill with today", "Replace empty cells with today's date"),
				option(constants.FixActionRemoveRows, "Remove rows", "Delete every row with an empty cell in this column"),
			}
		default:
			return []models.FixOption{
				option(constants.FixActionFillUnknown, "Fill with Unknown", "Replace empty cells with the literal Unknown"),
				option(constants.FixActionFillEmpty, "Fill with empty string", "Replace empty cells with an empty string"),
				option(constants.FixActionRemoveRows, "Remove rows", "Delete every row with an empty cell in this column"),
			}
		}

	case constants.ResultKindDuplicates:
		return []models.FixOption{
			option(constants.FixActionRemoveDuplicates, "Remove duplicates", "Keep the first occurrence of each row, drop the rest"),
			option(constants.FixActionMarkDuplicates, "Mark duplicates", "Add a flag column instead of deleting rows"),
		}

	default:
		hint := strings.ToLower(result.RuleName + " " + result.Description)
		switch {
		case strings.Contains(hint, "email"):
			return []models.FixOption{
				option(constants.FixActionAttemptFix, "Attempt email repair", "Rewrite common email typos such as ' at ' and ' dot '"),
				option(constants.FixActionClearInvalid, "Clear invalid values", "Set the flagged cells to null"),
				option(constants.FixActionRemoveRows, "Remove rows", "Delete the flagged rows"),
				option(constants.FixActionMarkIssues, "Mark issues", "Add a flag column marking the affected rows"),
			}
		case strings.Contains(hint, "age"):
			return []models.FixOption{
				option(constants.FixActionCapValues, "Cap age values", "Clamp ages above 120 to 120 and null out negatives"),
				option(constants.FixActionClearInvalid, "Clear invalid values", "Set the flagged cells to null"),
				option(constants.FixActionRemoveRows, "Remove rows", "Delete the flagged rows"),
				option(constants.FixActionMarkIssues, "Mark issues", "Add a flag column marking the affected rows"),
			}
		default:
			return []models.FixOption{
				option(constants.FixActionRemoveRows, "Remove rows", "Delete the flagged rows"),
				option(constants.FixActionClearInvalid, "Clear invalid values", "Set the flagged cells to null"),
				option(constants.FixActionMarkIssues, "Mark issues", "Add a flag column marking the affected rows"),
			}
		}
	}
}

// ApplyFix applies the chosen fix option and returns the transformed
// dataset. The input dataset is never modified.
func (a *FixApplicator) ApplyFix(ds *models.Dataset, result *models.ValidationResult, option *models.FixOption) (*models.Dataset, error) {
	affected := make(map[int]struct{}, len(result.AffectedRows))
	for _, idx := range result.AffectedRows {
		if idx < 0 || idx >= len(ds.Rows) {
			return nil, errors.WrapError(errors.ErrRowOutOfRange, errors.ErrorTypeValidation, "ROW_OUT_OF_RANGE",
				fmt.Sprintf("affected row %d exceeds dataset length %d", idx, len(ds.Rows)))
		}
		affected[idx] = struct{}{}
	}

	a.logger.WithFields(logrus.Fields{
		"action":        option.Action,
		"column":        result.Column,
		"affected_rows": len(affected),
	}).Info("Applying fix")

	switch option.Action {
	case constants.FixActionRemoveRows:
		return removeRows(ds, affected), nil
	case constants.FixActionFillMean:
		return fillAggregate(ds, result.Column, affected, mathutil.Mean)
	case constants.FixActionFillMedian:
		return fillAggregate(ds, result.Column, affected, mathutil.Median)
	case constants.FixActionFillZero:
		return fillLiteral(ds, result.Column, affected, float64(0))
	case constants.FixActionFillUnknown:
		return fillLiteral(ds, result.Column, affected, "Unknown")
	case constants.FixActionFillEmpty:
		return fillLiteral(ds, result.Column, affected, "")
	case constants.FixActionFillToday:
		return fillLiteral(ds, result.Column, affected, a.nowFn().Format("2006-01-02"))
	case constants.FixActionRemoveDuplicates:
		return removeDuplicates(ds), nil
	case constants.FixActionMarkDuplicates:
		return markRows(ds, affected, "is_duplicate"), nil
	case constants.FixActionMarkIssues:
		return markRows(ds, affected, "has_issue"), nil
	case constants.FixActionClearInvalid:
		return clearCells(ds, result.Column, affected)
	case constants.FixActionAttemptFix:
		return repairEmails(ds, result.Column, affected)
	case constants.FixActionCapValues:
		return capAges(ds, result.Column, affected)
	default:
		return nil, errors.WrapError(errors.ErrUnknownFixAction, errors.ErrorTypeValidation, "UNKNOWN_FIX_ACTION", option.Action)
	}
}

func removeRows(ds *models.Dataset, affected map[int]struct{}) *models.Dataset {
	out := ds.Clone()
	kept := out.Rows[:0]
	for i, row := range out.Rows {
		if _, drop := affected[i]; !drop {
			kept = append(kept, row)
		}
	}
	out.Rows = kept
	return out
}

// fillAggregate computes the aggregate over the valid (non-affected)
// numeric values and writes it into every affected cell.
func fillAggregate(ds *models.Dataset, column string, affected map[int]struct{}, aggregate func([]float64) float64) (*models.Dataset, error) {
	if err := requireColumn(ds, column); err != nil {
		return nil, err
	}

	var valid []float64
	for i, row := range ds.Rows {
		if _, skip := affected[i]; skip {
			continue
		}
		if f, ok := models.AsFloat(row[column]); ok {
			valid = append(valid, f)
		}
	}
	if len(valid) == 0 {
		return nil, errors.NewValidationError("NO_VALID_VALUES",
			fmt.Sprintf("column %q has no valid numeric values to aggregate", column))
	}

	fill := mathutil.Round(aggregate(valid), 2)
	out := ds.Clone()
	for idx := range affected {
		out.Rows[idx][column] = fill
	}
	return out, nil
}

func fillLiteral(ds *models.Dataset, column string, affected map[int]struct{}, literal interface{}) (*models.Dataset, error) {
	if err := requireColumn(ds, column); err != nil {
		return nil, err
	}
	out := ds.Clone()
	for idx := range affected {
		out.Rows[idx][column] = literal
	}
	return out, nil
}

// removeDuplicates keeps the first occurrence of each canonical row in one
// stable pass. Applying it twice yields the same dataset as applying it
// once.
func removeDuplicates(ds *models.Dataset) *models.Dataset {
	out := ds.Clone()
	seen := make(map[string]struct{}, len(out.Rows))
	kept := out.Rows[:0]
	for _, row := range out.Rows {
		key := profiling.CanonicalRow(row, out.Columns)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	out.Rows = kept
	return out
}

// markRows adds a boolean flag column instead of removing rows. The flag
// name gets a numeric suffix if the dataset already uses it.
func markRows(ds *models.Dataset, affected map[int]struct{}, flagName string) *models.Dataset {
	out := ds.Clone()

	name := flagName
	for n := 2; out.HasColumn(name); n++ {
		name = fmt.Sprintf("%s_%d", flagName, n)
	}
	out.Columns = append(out.Columns, name)

	for i, row := range out.Rows {
		_, flagged := affected[i]
		row[name] = flagged
	}
	return out
}

func clearCells(ds *models.Dataset, column string, affected map[int]struct{}) (*models.Dataset, error) {
	if err := requireColumn(ds, column); err != nil {
		return nil, err
	}
	out := ds.Clone()
	for idx := range affected {
		out.Rows[idx][column] = nil
	}
	return out, nil
}

// repairEmails applies the best-effort rewrites for common address typos:
// " at " becomes "@", " dot " becomes ".", a trailing "@" gets gmail.com
// appended, and an address with "@" but no "." gets ".com" appended.
func repairEmails(ds *models.Dataset, column string, affected map[int]struct{}) (*models.Dataset, error) {
	if err := requireColumn(ds, column); err != nil {
		return nil, err
	}
	out := ds.Clone()
	for idx := range affected {
		s := models.AsString(out.Rows[idx][column])
		if s == "" {
			continue
		}
		s = strings.ReplaceAll(s, " at ", "@")
		s = strings.ReplaceAll(s, " dot ", ".")
		if strings.HasSuffix(s, "@") {
			s += "gmail.com"
		} else if strings.Contains(s, "@") && !strings.Contains(s, ".") {
			s += ".com"
		}
		out.Rows[idx][column] = s
	}
	return out, nil
}

// capAges clamps values above 120 to 120 and nulls out negative values
func capAges(ds *models.Dataset, column string, affected map[int]struct{}) (*models.Dataset, error) {
	if err := requireColumn(ds, column); err != nil {
		return nil, err
	}
	out := ds.Clone()
	for idx := range affected {
		f, ok := models.AsFloat(out.Rows[idx][column])
		if !ok {
			continue
		}
		switch {
		case f > 120:
			out.Rows[idx][column] = float64(120)
		case f < 0:
			out.Rows[idx][column] = nil
		}
	}
	return out, nil
}

func requireColumn(ds *models.Dataset, column string) error {
	if column == "" {
		return errors.WrapError(errors.ErrFixNotApplicable, errors.ErrorTypeValidation, "NO_TARGET_COLUMN", "fix requires a target column")
	}
	if !ds.HasColumn(column) {
		return errors.WrapError(errors.ErrColumnNotFound, errors.ErrorTypeValidation, "COLUMN_NOT_FOUND", column)
	}
	return nil
}
