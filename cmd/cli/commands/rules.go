package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tablens/tablens/internal/validation"
	"github.com/tablens/tablens/pkg/models"
)

func NewRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage custom validation rules for a dataset",
	}

	cmd.AddCommand(newRulesListCmd())
	cmd.AddCommand(newRulesAddCmd())
	cmd.AddCommand(newRulesDeleteCmd())
	cmd.AddCommand(newRulesToggleCmd())

	return cmd
}

func withRuleManager(fn func(ctx context.Context, manager *validation.RuleManager) error) error {
	logger := newLogger()
	ctx := context.Background()

	store, err := openStore(ctx, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(ctx, validation.NewRuleManager(store, logger))
}

func newRulesListCmd() *cobra.Command {
	var datasetID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the rules attached to a dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuleManager(func(ctx context.Context, manager *validation.RuleManager) error {
				rules, err := manager.ListRules(ctx, datasetID)
				if err != nil {
					return err
				}
				if len(rules) == 0 {
					fmt.Println("No rules defined.")
					return nil
				}
				for _, rule := range rules {
					state := "inactive"
					if rule.Active {
						state = "active"
					}
					fmt.Printf("- %s  %s [%s, %s]: %q\n", rule.ID, rule.Name, rule.Severity, state, rule.Condition)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&datasetID, "dataset-id", "", "Dataset id (required)")
	cmd.MarkFlagRequired("dataset-id")
	return cmd
}

func newRulesAddCmd() *cobra.Command {
	var (
		datasetID string
		name      string
		desc      string
		condition string
		severity  string
		columns   []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a rule to a dataset",
		Example: `  tablens rules add --dataset-id hr-2026 --name "No negative ages" \
    --condition "age < 0" --severity critical --columns age`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuleManager(func(ctx context.Context, manager *validation.RuleManager) error {
				rule, err := manager.AddRule(ctx, datasetID, &models.CustomRule{
					Name:        name,
					Description: desc,
					Condition:   condition,
					Severity:    models.Severity(severity),
					Columns:     columns,
					Active:      true,
				})
				if err != nil {
					return err
				}
				fmt.Printf("Added rule %s (%s)\n", rule.ID, rule.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&datasetID, "dataset-id", "", "Dataset id (required)")
	cmd.Flags().StringVar(&name, "name", "", "Rule name (required)")
	cmd.Flags().StringVar(&desc, "description", "", "Rule description")
	cmd.Flags().StringVar(&condition, "condition", "", "Natural-language condition (required)")
	cmd.Flags().StringVar(&severity, "severity", "medium", "Severity (low, medium, high, critical)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Target columns (empty applies to all)")

	cmd.MarkFlagRequired("dataset-id")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("condition")
	return cmd
}

func newRulesDeleteCmd() *cobra.Command {
	var datasetID string

	cmd := &cobra.Command{
		Use:   "delete <rule-id>",
		Short: "Delete a rule from a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuleManager(func(ctx context.Context, manager *validation.RuleManager) error {
				if err := manager.DeleteRule(ctx, datasetID, args[0]); err != nil {
					return err
				}
				fmt.Printf("Deleted rule %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&datasetID, "dataset-id", "", "Dataset id (required)")
	cmd.MarkFlagRequired("dataset-id")
	return cmd
}

func newRulesToggleCmd() *cobra.Command {
	var datasetID string

	cmd := &cobra.Command{
		Use:   "toggle <rule-id>",
		Short: "Toggle a rule between active and inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuleManager(func(ctx context.Context, manager *validation.RuleManager) error {
				rule, err := manager.ToggleRule(ctx, datasetID, args[0])
				if err != nil {
					return err
				}
				state := "inactive"
				if rule.Active {
					state = "active"
				}
				fmt.Printf("Rule %s is now %s\n", rule.Name, state)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&datasetID, "dataset-id", "", "Dataset id (required)")
	cmd.MarkFlagRequired("dataset-id")
	return cmd
}
