package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/internal/profiling"
	"github.com/tablens/tablens/pkg/constants"
	"github.com/tablens/tablens/pkg/models"
)

// CrossFieldValidator applies per-row consistency checks across columns
// paired by name heuristics, not by declared schema relationships.
type CrossFieldValidator struct {
	logger *logrus.Logger
	nowFn  func() time.Time
}

// NewCrossFieldValidator creates a cross-field validator
func NewCrossFieldValidator(logger *logrus.Logger) *CrossFieldValidator {
	if logger == nil {
		logger = logrus.New()
	}
	return &CrossFieldValidator{
		logger: logger,
		nowFn:  time.Now,
	}
}

// GetType returns the validator type tag
func (v *CrossFieldValidator) GetType() string { return "cross_field" }

// GetName returns a human-readable name for the validator
func (v *CrossFieldValidator) GetName() string { return "Cross-Field Validator" }

// GetDescription returns a description of the validator
func (v *CrossFieldValidator) GetDescription() string {
	return "Detects inconsistencies between related columns within the same row"
}

// columnRoles holds the heuristically matched column names for a dataset
type columnRoles struct {
	age        string
	birthDate  string
	startDates []string
	endDates   []string
	salary     string
	experience string
}

func resolveRoles(columns []string) columnRoles {
	var roles columnRoles
	for _, col := range columns {
		lower := strings.ToLower(col)
		if roles.age == "" && strings.Contains(lower, "age") {
			roles.age = col
		}
		if strings.Contains(lower, "date") {
			if roles.birthDate == "" && strings.Contains(lower, "birth") {
				roles.birthDate = col
			}
			if strings.Contains(lower, "start") {
				roles.startDates = append(roles.startDates, col)
			}
			if strings.Contains(lower, "end") {
				roles.endDates = append(roles.endDates, col)
			}
		}
		if roles.salary == "" && (strings.Contains(lower, "salary") || strings.Contains(lower, "income")) {
			roles.salary = col
		}
		if roles.experience == "" && (strings.Contains(lower, "experience") || strings.Contains(lower, "years")) {
			roles.experience = col
		}
	}
	return roles
}

// Validate runs every check against every row. Detection order is
// row-major, then check order (age/birth date, start/end pairs,
// salary/experience) within a row. The result list is truncated to 500.
func (v *CrossFieldValidator) Validate(ds *models.Dataset) []models.CrossFieldIssue {
	roles := resolveRoles(ds.Columns)
	now := v.nowFn()

	var issues []models.CrossFieldIssue
	for rowIdx, row := range ds.Rows {
		issues = v.checkAgeAgainstBirthDate(issues, roles, row, rowIdx, now)
		issues = v.checkDateRanges(issues, roles, row, rowIdx)
		issues = v.checkSalaryAgainstExperience(issues, roles, row, rowIdx)

		if len(issues) >= constants.MaxCrossFieldIssues {
			return issues[:constants.MaxCrossFieldIssues]
		}
	}
	return issues
}

func (v *CrossFieldValidator) checkAgeAgainstBirthDate(issues []models.CrossFieldIssue, roles columnRoles, row models.Row, rowIdx int, now time.Time) []models.CrossFieldIssue {
	if roles.age == "" || roles.birthDate == "" {
		return issues
	}
	ageValue := row[roles.age]
	birthValue := row[roles.birthDate]
	if models.IsMissing(ageValue) || models.IsMissing(birthValue) {
		return issues
	}

	age, ok := models.AsFloat(ageValue)
	if !ok {
		return issues
	}
	birth, ok := profiling.ParseDate(birthValue)
	if !ok {
		return issues
	}

	computed := float64(now.Year() - birth.Year())
	diff := computed - age
	if diff > 1 || diff < -1 {
		issues = append(issues, models.CrossFieldIssue{
			Columns:    []string{roles.age, roles.birthDate},
			RowIndex:   rowIdx,
			Issue:      fmt.Sprintf("Age %v does not match birth date %v (computed %d)", ageValue, birthValue, int(computed)),
			Severity:   models.SeverityHigh,
			Suggestion: "Recompute the age from the birth date",
		})
	}
	return issues
}

// checkDateRanges compares every start-date column against every end-date
// column, the full Cartesian product, not just one matched pair.
func (v *CrossFieldValidator) checkDateRanges(issues []models.CrossFieldIssue, roles columnRoles, row models.Row, rowIdx int) []models.CrossFieldIssue {
	for _, startCol := range roles.startDates {
		for _, endCol := range roles.endDates {
			startValue := row[startCol]
			endValue := row[endCol]
			if models.IsMissing(startValue) || models.IsMissing(endValue) {
				continue
			}

			start, okStart := profiling.ParseDate(startValue)
			end, okEnd := profiling.ParseDate(endValue)
			if !okStart || !okEnd {
				continue
			}

			if start.After(end) {
				issues = append(issues, models.CrossFieldIssue{
					Columns:    []string{startCol, endCol},
					RowIndex:   rowIdx,
					Issue:      fmt.Sprintf("%s is after %s", startCol, endCol),
					Severity:   models.SeverityCritical,
					Suggestion: "Swap or correct the date range",
				})
			}
		}
	}
	return issues
}

func (v *CrossFieldValidator) checkSalaryAgainstExperience(issues []models.CrossFieldIssue, roles columnRoles, row models.Row, rowIdx int) []models.CrossFieldIssue {
	if roles.salary == "" || roles.experience == "" {
		return issues
	}
	salaryValue := row[roles.salary]
	expValue := row[roles.experience]
	if models.IsMissing(salaryValue) || models.IsMissing(expValue) {
		return issues
	}

	salary, okSalary := models.AsFloat(salaryValue)
	experience, okExp := models.AsFloat(expValue)
	if !okSalary || !okExp {
		return issues
	}

	// Crude heuristic kept on purpose: long experience with a very low
	// salary usually signals a unit or entry error.
	if experience > 10 && salary < 30000 {
		issues = append(issues, models.CrossFieldIssue{
			Columns:    []string{roles.salary, roles.experience},
			RowIndex:   rowIdx,
			Issue:      fmt.Sprintf("Low salary %v for %v years of experience", salaryValue, expValue),
			Severity:   models.SeverityMedium,
			Suggestion: "Check the salary unit and the experience value",
		})
	}
	return issues
}
