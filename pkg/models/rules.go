package models

import "time"

// CustomRule is a user-authored validation rule. The condition is a loose
// natural-language string evaluated by keyword matching, not a parsed
// expression. An empty Columns list means the rule applies to all columns.
type CustomRule struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Condition   string    `json:"condition"`
	Severity    Severity  `json:"severity"`
	Columns     []string  `json:"columns,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidationResult reports the rows one rule (built-in or custom) flagged.
// Results are produced fresh by each validation run; a run's output
// supersedes the previous one unless the caller retains it. AffectedRows
// is capped at 1000 entries.
type ValidationResult struct {
	ID           string    `json:"id"`
	RuleName     string    `json:"rule_name"`
	Kind         string    `json:"kind"`
	Column       string    `json:"column,omitempty"`
	Severity     Severity  `json:"severity"`
	AffectedRows []int     `json:"affected_rows"`
	Description  string    `json:"description"`
	Suggestion   string    `json:"suggestion,omitempty"`
	FixScript    string    `json:"fix_script,omitempty"`
	CanAutoFix   bool      `json:"can_auto_fix"`
	CreatedAt    time.Time `json:"created_at"`
}

// FixOption describes one remedy that can be applied to the rows a
// ValidationResult flagged. Purely advisory until applied.
type FixOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Action      string `json:"action"`
	Preview     string `json:"preview"`
}
