package validation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/pkg/constants"
	"github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/interfaces"
	"github.com/tablens/tablens/pkg/models"
)

// KeywordMatcher evaluates rule conditions by substring keyword matching.
// It is deliberately not a parser: conditions like "age < 0" work because
// the literal token is recognized, not because an expression is evaluated.
// Clauses are not mutually exclusive; a row matching several clauses still
// matches once.
type KeywordMatcher struct{}

// NewKeywordMatcher creates the keyword condition matcher
func NewKeywordMatcher() *KeywordMatcher {
	return &KeywordMatcher{}
}

// Match reports whether the row matches the rule's condition
func (m *KeywordMatcher) Match(rule *models.CustomRule, row models.Row, columns []string) (bool, error) {
	cond := strings.ToLower(rule.Condition)
	if strings.TrimSpace(cond) == "" {
		return false, errors.WrapError(errors.ErrEmptyCondition, errors.ErrorTypeValidation, "EMPTY_CONDITION", "rule has no condition text")
	}
	if len(columns) == 0 {
		return false, errors.NewValidationError("NO_TARGET_COLUMNS", "rule resolves to no target columns")
	}

	matched := false

	if strings.Contains(cond, "null") {
		for _, col := range columns {
			if isFalsy(row[col]) {
				matched = true
				break
			}
		}
	}

	for _, col := range columns {
		value, ok := models.AsFloat(row[col])
		if !ok {
			continue
		}
		if strings.Contains(cond, "age < 0") && value < 0 {
			matched = true
		}
		if strings.Contains(cond, "age > 120") && value > 120 {
			matched = true
		}
		if strings.Contains(cond, "salary") && strings.Contains(cond, "> 0") && value <= 0 {
			matched = true
		}
	}

	if strings.Contains(cond, "email") {
		for _, col := range columns {
			s := models.AsString(row[col])
			if s == "" {
				continue
			}
			if !strings.Contains(s, "@") || !strings.Contains(s, ".") {
				matched = true
				break
			}
		}
	}

	return matched, nil
}

// isFalsy mirrors the loose emptiness notion the null clause uses: nil,
// blank string, false, or a numeric zero. A "0" string is a present value.
func isFalsy(v interface{}) bool {
	if models.IsMissing(v) {
		return true
	}
	switch n := v.(type) {
	case bool:
		return !n
	case float64:
		return n == 0
	case float32:
		return n == 0
	case int:
		return n == 0
	case int64:
		return n == 0
	}
	return false
}

// RuleEngine evaluates custom rules and the built-in null/duplicate checks
// against a dataset. Each run produces a fresh result set; a rule whose
// evaluation fails is logged and skipped without aborting the run.
type RuleEngine struct {
	matcher interfaces.RuleMatcher
	logger  *logrus.Logger
	nowFn   func() time.Time
}

// NewRuleEngine creates a rule engine. A nil matcher falls back to the
// keyword matcher.
func NewRuleEngine(matcher interfaces.RuleMatcher, logger *logrus.Logger) *RuleEngine {
	if matcher == nil {
		matcher = NewKeywordMatcher()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &RuleEngine{
		matcher: matcher,
		logger:  logger,
		nowFn:   time.Now,
	}
}

// GetType returns the validator type tag
func (e *RuleEngine) GetType() string { return "custom_rules" }

// GetName returns a human-readable name for the validator
func (e *RuleEngine) GetName() string { return "Custom Rule Engine" }

// GetDescription returns a description of the validator
func (e *RuleEngine) GetDescription() string {
	return "Evaluates user-authored rules with keyword-matched conditions"
}

// ValidateDataset runs the built-in checks followed by every active custom
// rule. Rules with zero affected rows are omitted from the output.
func (e *RuleEngine) ValidateDataset(ctx context.Context, ds *models.Dataset, rules []*models.CustomRule) ([]*models.ValidationResult, error) {
	if len(ds.Columns) == 0 {
		return nil, errors.WrapError(errors.ErrEmptyHeaders, errors.ErrorTypeValidation, "EMPTY_DATASET", "cannot validate a dataset without columns")
	}

	results := e.EvaluateBuiltin(ds)

	custom, err := e.EvaluateRules(ctx, ds, rules)
	if err != nil {
		return nil, err
	}
	return append(results, custom...), nil
}

// EvaluateRules evaluates every active custom rule. Per-rule failures are
// isolated: logged at error level and omitted from the results.
func (e *RuleEngine) EvaluateRules(ctx context.Context, ds *models.Dataset, rules []*models.CustomRule) ([]*models.ValidationResult, error) {
	var results []*models.ValidationResult

	for _, rule := range rules {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		if !rule.Active {
			continue
		}

		result, err := e.evaluateRule(ds, rule)
		if err != nil {
			e.logger.WithFields(logrus.Fields{
				"rule_id":   rule.ID,
				"rule_name": rule.Name,
				"error":     err,
			}).Error("Rule evaluation failed, skipping rule")
			continue
		}
		if result != nil {
			results = append(results, result)
		}
	}

	return results, nil
}

func (e *RuleEngine) evaluateRule(ds *models.Dataset, rule *models.CustomRule) (result *models.ValidationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.NewValidationError("RULE_PANIC", fmt.Sprintf("rule evaluation panicked: %v", r))
		}
	}()

	columns := rule.Columns
	if len(columns) == 0 {
		columns = ds.Columns
	}

	var affected []int
	for i, row := range ds.Rows {
		ok, matchErr := e.matcher.Match(rule, row, columns)
		if matchErr != nil {
			return nil, matchErr
		}
		if ok {
			affected = append(affected, i)
			if len(affected) >= constants.MaxAffectedRows {
				break
			}
		}
	}

	if len(affected) == 0 {
		return nil, nil
	}

	column := ""
	if len(rule.Columns) == 1 {
		column = rule.Columns[0]
	}

	severity := rule.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}

	return &models.ValidationResult{
		ID:           uuid.NewString(),
		RuleName:     rule.Name,
		Kind:         constants.ResultKindCustom,
		Column:       column,
		Severity:     severity,
		AffectedRows: affected,
		Description:  fmt.Sprintf("%d rows match rule %q", len(affected), rule.Name),
		Suggestion:   "Review the flagged rows and apply a fix manually",
		CanAutoFix:   false,
		CreatedAt:    e.nowFn(),
	}, nil
}
