package validation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/interfaces"
	"github.com/tablens/tablens/pkg/models"
)

// RuleManager owns the custom-rule lifecycle for a dataset: add, update,
// delete and toggle, persisted through a RuleStore. Rules are only ever
// user-created; nothing here generates rules automatically.
type RuleManager struct {
	store  interfaces.RuleStore
	logger *logrus.Logger
	nowFn  func() time.Time
}

// NewRuleManager creates a rule manager on top of a rule store
func NewRuleManager(store interfaces.RuleStore, logger *logrus.Logger) *RuleManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &RuleManager{
		store:  store,
		logger: logger,
		nowFn:  time.Now,
	}
}

// ListRules returns every rule attached to a dataset
func (m *RuleManager) ListRules(ctx context.Context, datasetID string) ([]*models.CustomRule, error) {
	return m.store.LoadRules(ctx, datasetID)
}

// AddRule validates and persists a new rule, assigning its id and
// timestamps. The stored rule is returned.
func (m *RuleManager) AddRule(ctx context.Context, datasetID string, rule *models.CustomRule) (*models.CustomRule, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}

	rules, err := m.store.LoadRules(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	now := m.nowFn()
	stored := *rule
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Severity == "" {
		stored.Severity = models.SeverityMedium
	}

	rules = append(rules, &stored)
	if err := m.store.SaveRules(ctx, datasetID, rules); err != nil {
		return nil, err
	}

	m.logger.WithFields(logrus.Fields{
		"dataset_id": datasetID,
		"rule_id":    stored.ID,
		"rule_name":  stored.Name,
	}).Info("Rule added")
	return &stored, nil
}

// UpdateRule replaces an existing rule's definition, keeping its id and
// creation time
func (m *RuleManager) UpdateRule(ctx context.Context, datasetID string, rule *models.CustomRule) (*models.CustomRule, error) {
	if rule.ID == "" {
		return nil, errors.NewValidationError("MISSING_RULE_ID", "rule id is required for update")
	}
	if err := validateRule(rule); err != nil {
		return nil, err
	}

	rules, err := m.store.LoadRules(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	for i, existing := range rules {
		if existing.ID != rule.ID {
			continue
		}
		updated := *rule
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = m.nowFn()
		rules[i] = &updated
		if err := m.store.SaveRules(ctx, datasetID, rules); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	return nil, errors.WrapError(errors.ErrRuleNotFound, errors.ErrorTypeValidation, "RULE_NOT_FOUND", rule.ID)
}

// DeleteRule removes a rule from a dataset
func (m *RuleManager) DeleteRule(ctx context.Context, datasetID, ruleID string) error {
	rules, err := m.store.LoadRules(ctx, datasetID)
	if err != nil {
		return err
	}

	kept := rules[:0]
	found := false
	for _, rule := range rules {
		if rule.ID == ruleID {
			found = true
			continue
		}
		kept = append(kept, rule)
	}
	if !found {
		return errors.WrapError(errors.ErrRuleNotFound, errors.ErrorTypeValidation, "RULE_NOT_FOUND", ruleID)
	}

	return m.store.SaveRules(ctx, datasetID, kept)
}

// ToggleRule flips a rule between active and inactive. Inactive rules are
// skipped entirely during validation runs.
func (m *RuleManager) ToggleRule(ctx context.Context, datasetID, ruleID string) (*models.CustomRule, error) {
	rules, err := m.store.LoadRules(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	for _, rule := range rules {
		if rule.ID != ruleID {
			continue
		}
		rule.Active = !rule.Active
		rule.UpdatedAt = m.nowFn()
		if err := m.store.SaveRules(ctx, datasetID, rules); err != nil {
			return nil, err
		}
		return rule, nil
	}

	return nil, errors.WrapError(errors.ErrRuleNotFound, errors.ErrorTypeValidation, "RULE_NOT_FOUND", ruleID)
}

func validateRule(rule *models.CustomRule) error {
	if rule == nil {
		return errors.WrapError(errors.ErrInvalidRule, errors.ErrorTypeValidation, "INVALID_RULE", "rule cannot be nil")
	}
	if strings.TrimSpace(rule.Name) == "" {
		return errors.WrapError(errors.ErrInvalidRule, errors.ErrorTypeValidation, "INVALID_RULE", "rule name is required")
	}
	if strings.TrimSpace(rule.Condition) == "" {
		return errors.WrapError(errors.ErrEmptyCondition, errors.ErrorTypeValidation, "EMPTY_CONDITION", "rule condition is required")
	}
	switch rule.Severity {
	case "", models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
		return nil
	default:
		return errors.WrapError(errors.ErrInvalidSeverity, errors.ErrorTypeValidation, "INVALID_SEVERITY", string(rule.Severity))
	}
}
