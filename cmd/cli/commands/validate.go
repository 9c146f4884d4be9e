package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablens/tablens/internal/ingest"
	"github.com/tablens/tablens/internal/validation"
)

type ValidateOptions struct {
	InputFile    string
	DatasetID    string
	OutputFormat string
	Save         bool
}

func NewValidateCmd() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run built-in checks and custom rules against a dataset",
		Long: `Run the built-in null and duplicate checks plus every active custom rule
attached to the dataset. Rules are loaded from the configured storage
backend by dataset id.`,
		Example: `  # Validate using the file's name as dataset id
  tablens validate --input employees.csv

  # Validate and persist the results
  tablens validate --input employees.csv --dataset-id hr-2026 --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input CSV file to validate (required)")
	cmd.Flags().StringVar(&opts.DatasetID, "dataset-id", "", "Dataset id for rule lookup (defaults to file name)")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "text", "Output format (text, json)")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Persist the validation results")

	cmd.MarkFlagRequired("input")

	return cmd
}

func runValidate(opts *ValidateOptions) error {
	logger := newLogger()
	ctx := context.Background()

	ds, err := ingest.ReadFile(opts.InputFile)
	if err != nil {
		return err
	}
	if opts.DatasetID != "" {
		ds.ID = opts.DatasetID
	}

	store, err := openStore(ctx, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	rules, err := store.LoadRules(ctx, ds.ID)
	if err != nil {
		return err
	}

	ruleEngine := validation.NewRuleEngine(nil, logger)
	results, err := ruleEngine.ValidateDataset(ctx, ds, rules)
	if err != nil {
		return err
	}

	if opts.Save {
		if err := store.SaveResults(ctx, ds.ID, results); err != nil {
			return err
		}
	}

	if opts.OutputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No issues found.")
		return nil
	}

	fmt.Printf("Validation Results (%d)\n", len(results))
	fmt.Println("======================")
	for _, result := range results {
		autoFix := ""
		if result.CanAutoFix {
			autoFix = " (auto-fixable)"
		}
		fmt.Printf("- %s [%s]%s: %s, %d rows affected\n",
			result.RuleName, result.Severity, autoFix, result.Description, len(result.AffectedRows))
	}
	return nil
}
