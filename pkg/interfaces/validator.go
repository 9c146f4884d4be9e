package interfaces

import (
	"context"

	"github.com/tablens/tablens/pkg/models"
)

// Validator is the common surface every detection pass exposes. Concrete
// validators add their own typed Validate methods; this interface covers
// registration and logging.
type Validator interface {
	// GetType returns the validator type tag
	GetType() string

	// GetName returns a human-readable name for the validator
	GetName() string

	// GetDescription returns a description of the validator
	GetDescription() string
}

// RuleMatcher decides whether one row matches a custom rule's condition.
// The condition grammar is a keyword cascade; implementations that parse a
// real expression language can be swapped in behind this interface without
// touching the rule engine.
type RuleMatcher interface {
	// Match reports whether the row matches the rule's condition. The
	// columns argument is the resolved target column list (the rule's own
	// list, or every dataset column when the rule leaves it empty).
	Match(rule *models.CustomRule, row models.Row, columns []string) (bool, error)
}

// ProgressSink receives checkpoint callbacks during an analysis pass.
// stage is a short identifier, percent is 0-100. A nil sink is valid and
// means no progress reporting.
type ProgressSink func(stage string, percent int)

// RuleStore persists per-dataset custom rules and validation results.
// Implementations cover file, redis and postgres backends.
type RuleStore interface {
	// Connect establishes the backend connection
	Connect(ctx context.Context) error

	// Close releases the backend connection
	Close() error

	// SaveRules replaces the rule set stored for a dataset
	SaveRules(ctx context.Context, datasetID string, rules []*models.CustomRule) error

	// LoadRules returns the rule set stored for a dataset; an unknown
	// dataset yields an empty list, not an error
	LoadRules(ctx context.Context, datasetID string) ([]*models.CustomRule, error)

	// SaveResults replaces the validation results stored for a dataset
	SaveResults(ctx context.Context, datasetID string, results []*models.ValidationResult) error

	// LoadResults returns the validation results stored for a dataset
	LoadResults(ctx context.Context, datasetID string) ([]*models.ValidationResult, error)
}
