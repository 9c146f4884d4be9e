package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/internal/profiling"
	"github.com/tablens/tablens/pkg/constants"
	"github.com/tablens/tablens/pkg/models"
)

// strictPhonePattern is the contextual-check pattern: 8 to 16 digits with
// no leading zero, optional +. It is tighter than the loose pattern type
// inference uses on purpose.
var strictPhonePattern = regexp.MustCompile(`^\+?[1-9]\d{7,15}$`)

// ContextualValidator applies single-cell semantic checks keyed by
// column-name substring heuristics combined with inferred types. The
// checks are best-effort: a column named "average" trips the age heuristic
// and that is accepted behavior, not a bug to fix.
type ContextualValidator struct {
	logger *logrus.Logger
	nowFn  func() time.Time
}

// NewContextualValidator creates a contextual validator
func NewContextualValidator(logger *logrus.Logger) *ContextualValidator {
	if logger == nil {
		logger = logrus.New()
	}
	return &ContextualValidator{
		logger: logger,
		nowFn:  time.Now,
	}
}

// GetType returns the validator type tag
func (v *ContextualValidator) GetType() string { return "contextual" }

// GetName returns a human-readable name for the validator
func (v *ContextualValidator) GetName() string { return "Contextual Validator" }

// GetDescription returns a description of the validator
func (v *ContextualValidator) GetDescription() string {
	return "Detects semantically invalid cell values based on column name and type heuristics"
}

// Validate scans every non-empty cell in row-major order, columns in
// header order, checks in fixed order within a column. The result list is
// truncated to the first 1000 issues in detection order.
func (v *ContextualValidator) Validate(ds *models.Dataset, types map[string]models.ColumnType) []models.ContextualIssue {
	var issues []models.ContextualIssue
	now := v.nowFn()

	for rowIdx, row := range ds.Rows {
		for _, col := range ds.Columns {
			value := row[col]
			if models.IsMissing(value) {
				continue
			}

			lower := strings.ToLower(col)
			colType := types[col]

			issues = v.checkAge(issues, lower, col, rowIdx, value)
			issues = v.checkDate(issues, lower, col, colType, rowIdx, value, now)
			issues = v.checkEmail(issues, lower, col, colType, rowIdx, value)
			issues = v.checkPhone(issues, lower, col, colType, rowIdx, value)
			issues = v.checkSalary(issues, lower, col, rowIdx, value)
			issues = v.checkPercentage(issues, lower, col, rowIdx, value)

			if len(issues) >= constants.MaxContextualIssues {
				return issues[:constants.MaxContextualIssues]
			}
		}
	}
	return issues
}

func (v *ContextualValidator) checkAge(issues []models.ContextualIssue, lower, col string, rowIdx int, value interface{}) []models.ContextualIssue {
	if !strings.Contains(lower, "age") {
		return issues
	}
	age, ok := models.AsFloat(value)
	if !ok {
		return issues
	}

	switch {
	case age < 0:
		issues = append(issues, models.ContextualIssue{
			Column: col, RowIndex: rowIdx, Value: value,
			Issue:      "Negative age value",
			Severity:   models.SeverityCritical,
			Suggestion: "Verify the value or remove the row",
		})
	case age > 150:
		issues = append(issues, models.ContextualIssue{
			Column: col, RowIndex: rowIdx, Value: value,
			Issue:      "Unrealistic age value",
			Severity:   models.SeverityHigh,
			Suggestion: "Check for data entry errors",
		})
	case age > 120:
		issues = append(issues, models.ContextualIssue{
			Column: col, RowIndex: rowIdx, Value: value,
			Issue:      "Unusually high age",
			Severity:   models.SeverityMedium,
			Suggestion: "Confirm the age is correct",
		})
	}
	return issues
}

func (v *ContextualValidator) checkDate(issues []models.ContextualIssue, lower, col string, colType models.ColumnType, rowIdx int, value interface{}, now time.Time) []models.ContextualIssue {
	if colType != models.ColumnTypeDate && !strings.Contains(lower, "date") {
		return issues
	}

	parsed, ok := profiling.ParseDate(value)
	if !ok {
		return append(issues, models.ContextualIssue{
			Column: col, RowIndex: rowIdx, Value: value,
			Issue:      "Invalid date format",
			Severity:   models.SeverityHigh,
			Suggestion: "Use a supported date format such as YYYY-MM-DD",
		})
	}

	switch {
	case strings.Contains(lower, "birth") && parsed.After(now):
		issues = append(issues, models.ContextualIssue{
			Column: col, RowIndex: rowIdx, Value: value,
			Issue:      "Birth date is in the future",
			Severity:   models.SeverityCritical,
			Suggestion: "Correct the birth date",
		})
	case parsed.Before(time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)):
		issues = append(issues, models.ContextualIssue{
			Column: col, RowIndex: rowIdx, Value: value,
			Issue:      "Date before 1900",
			Severity:   models.SeverityMedium,
			Suggestion: "Verify this historical date is intended",
		})
	case parsed.After(now.AddDate(10, 0, 0)):
		issues = append(issues, models.ContextualIssue{
			Column: col, RowIndex: rowIdx, Value: value,
			Issue:      "Date more than 10 years in the future",
			Severity:   models.SeverityMedium,
			Suggestion: "Verify this future date is intended",
		})
	}
	return issues
}

func (v *ContextualValidator) checkEmail(issues []models.ContextualIssue, lower, col string, colType models.ColumnType, rowIdx int, value interface{}) []models.ContextualIssue {
	if colType != models.ColumnTypeEmail && !strings.Contains(lower, "email") {
		return issues
	}
	if profiling.IsValidEmail(strings.TrimSpace(models.AsString(value))) {
		return issues
	}
	return append(issues, models.ContextualIssue{
		Column: col, RowIndex: rowIdx, Value: value,
		Issue:      "Invalid email format",
		Severity:   models.SeverityMedium,
		Suggestion: "Correct the address to local@domain.tld form",
	})
}

func (v *ContextualValidator) checkPhone(issues []models.ContextualIssue, lower, col string, colType models.ColumnType, rowIdx int, value interface{}) []models.ContextualIssue {
	if colType != models.ColumnTypePhone && !strings.Contains(lower, "phone") {
		return issues
	}
	if strictPhonePattern.MatchString(profiling.NormalizePhone(models.AsString(value))) {
		return issues
	}
	return append(issues, models.ContextualIssue{
		Column: col, RowIndex: rowIdx, Value: value,
		Issue:      "Invalid phone number",
		Severity:   models.SeverityMedium,
		Suggestion: "Use an international number with 8 to 16 digits",
	})
}

func (v *ContextualValidator) checkSalary(issues []models.ContextualIssue, lower, col string, rowIdx int, value interface{}) []models.ContextualIssue {
	if !strings.Contains(lower, "salary") && !strings.Contains(lower, "income") && !strings.Contains(lower, "wage") {
		return issues
	}
	salary, ok := models.AsFloat(value)
	if !ok {
		return issues
	}

	switch {
	case salary < 0:
		issues = append(issues, models.ContextualIssue{
			Column: col, RowIndex: rowIdx, Value: value,
			Issue:      "Negative salary value",
			Severity:   models.SeverityHigh,
			Suggestion: "Verify the value or remove the row",
		})
	case salary > 10000000:
		issues = append(issues, models.ContextualIssue{
			Column: col, RowIndex: rowIdx, Value: value,
			Issue:      "Unusually high salary",
			Severity:   models.SeverityMedium,
			Suggestion: "Confirm the amount and currency",
		})
	}
	return issues
}

func (v *ContextualValidator) checkPercentage(issues []models.ContextualIssue, lower, col string, rowIdx int, value interface{}) []models.ContextualIssue {
	raw := models.AsString(value)
	named := strings.Contains(lower, "percent") || strings.Contains(lower, "rate")
	if !named && !strings.Contains(raw, "%") {
		return issues
	}

	pct, ok := models.AsFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%")))
	if !ok {
		return issues
	}
	if pct >= 0 && pct <= 100 {
		return issues
	}
	return append(issues, models.ContextualIssue{
		Column: col, RowIndex: rowIdx, Value: value,
		Issue:      "Percentage outside the 0-100 range",
		Severity:   models.SeverityMedium,
		Suggestion: "Check the scale of the value",
	})
}
