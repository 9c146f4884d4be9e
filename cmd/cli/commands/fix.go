package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablens/tablens/internal/ingest"
	"github.com/tablens/tablens/internal/profiling"
	"github.com/tablens/tablens/internal/quality"
	"github.com/tablens/tablens/internal/validation"
	"github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/models"
)

type FixOptions struct {
	InputFile  string
	OutputFile string
	DatasetID  string
	ResultID   string
	Kind       string
	Column     string
	Action     string
	Reanalyze  bool
	ListOnly   bool
}

func NewFixCmd() *cobra.Command {
	opts := &FixOptions{}

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Apply a cleaning fix to a dataset",
		Long: `Run validation, pick one result, and apply a fix action to the rows it
flagged. The input file is never modified; the fixed dataset is written
to the output file.`,
		Example: `  # See what can be fixed
  tablens fix --input employees.csv --list

  # Fill nulls in the salary column with the mean of the valid values
  tablens fix --input employees.csv --kind null_values --column salary \
    --action fill_mean --output employees_fixed.csv

  # Remove duplicates and re-profile to confirm the score improved
  tablens fix --input employees.csv --kind duplicate_rows \
    --action remove_duplicates --output deduped.csv --reanalyze`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input CSV file (required)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "", "Output CSV file for the fixed dataset")
	cmd.Flags().StringVar(&opts.DatasetID, "dataset-id", "", "Dataset id for rule lookup (defaults to file name)")
	cmd.Flags().StringVar(&opts.ResultID, "result-id", "", "Validation result id to fix")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Select result by kind (null_values, duplicate_rows, custom_rule)")
	cmd.Flags().StringVar(&opts.Column, "column", "", "Select result by affected column")
	cmd.Flags().StringVar(&opts.Action, "action", "", "Fix action to apply")
	cmd.Flags().BoolVar(&opts.Reanalyze, "reanalyze", false, "Re-profile the fixed dataset and print the new score")
	cmd.Flags().BoolVar(&opts.ListOnly, "list", false, "List validation results and their fix options, apply nothing")

	cmd.MarkFlagRequired("input")

	return cmd
}

func runFix(opts *FixOptions) error {
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

	applicator := validation.NewFixApplicator(logger)
	types := profiling.InferTypes(ds)

	if opts.ListOnly {
		if len(results) == 0 {
			fmt.Println("Nothing to fix.")
			return nil
		}
		for _, result := range results {
			fmt.Printf("%s  %s [%s]: %s\n", result.ID, result.RuleName, result.Kind, result.Description)
			for _, option := range applicator.GenerateFixOptions(result, types[result.Column]) {
				fmt.Printf("    --action %-18s %s\n", option.Action, option.Description)
			}
		}
		return nil
	}

	if opts.Action == "" {
		return errors.NewValidationError("MISSING_ACTION", "an --action is required unless --list is set")
	}
	if opts.OutputFile == "" {
		return errors.NewValidationError("MISSING_OUTPUT", "an --output file is required to apply a fix")
	}

	result, err := selectResult(results, opts)
	if err != nil {
		return err
	}

	fixed, err := applicator.ApplyFix(ds, result, &models.FixOption{Action: opts.Action, Name: opts.Action})
	if err != nil {
		return err
	}

	if err := ingest.WriteFile(opts.OutputFile, fixed); err != nil {
		return err
	}
	fmt.Printf("Applied %s to %d rows, wrote %s (%d rows)\n",
		opts.Action, len(result.AffectedRows), opts.OutputFile, len(fixed.Rows))

	if opts.Reanalyze {
		engine := quality.NewEngine(nil, logger)
		before, err := engine.Analyze(ctx, ds, nil)
		if err != nil {
			return err
		}
		after, err := engine.Analyze(ctx, fixed, nil)
		if err != nil {
			return err
		}
		fmt.Printf("Quality score: %d -> %d\n", before.QualityScore, after.QualityScore)
	}

	return nil
}

func selectResult(results []*models.ValidationResult, opts *FixOptions) (*models.ValidationResult, error) {
	var matches []*models.ValidationResult
	for _, result := range results {
		if opts.ResultID != "" && result.ID != opts.ResultID {
			continue
		}
		if opts.Kind != "" && result.Kind != opts.Kind {
			continue
		}
		if opts.Column != "" && result.Column != opts.Column {
			continue
		}
		matches = append(matches, result)
	}

	switch len(matches) {
	case 0:
		return nil, errors.NewValidationError("NO_MATCHING_RESULT", "no validation result matches the given selectors")
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.RuleName
		}
		return nil, errors.NewValidationError("AMBIGUOUS_RESULT",
			fmt.Sprintf("selectors match %d results (%s); narrow with --column or --result-id", len(matches), strings.Join(names, ", ")))
	}
}
