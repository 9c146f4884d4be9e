package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tablens/tablens/internal/ingest"
	"github.com/tablens/tablens/internal/quality"
	"github.com/tablens/tablens/pkg/models"
)

type AnalyzeOptions struct {
	InputFile    string
	OutputFormat string
	OutputFile   string
	ShowProgress bool
}

func NewAnalyzeCmd() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Profile a tabular dataset for data quality defects",
		Long: `Profile a CSV dataset: infer column types, compute statistics, detect
duplicates and outliers, run contextual and cross-field validation, and
roll everything into a quality score.`,
		Example: `  # Basic analysis
  tablens analyze --input employees.csv

  # JSON output written to a file
  tablens analyze --input employees.csv --format json --output report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input CSV file to analyze (required)")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "text", "Output format (text, json)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "-", "Output file (- for stdout)")
	cmd.Flags().BoolVar(&opts.ShowProgress, "progress", false, "Print pass checkpoints while analyzing")

	cmd.MarkFlagRequired("input")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions) error {
	logger := newLogger()

	ds, err := ingest.ReadFile(opts.InputFile)
	if err != nil {
		return err
	}

	var sink func(stage string, percent int)
	if opts.ShowProgress {
		sink = func(stage string, percent int) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, stage)
		}
	}

	engine := quality.NewEngine(nil, logger)
	result, err := engine.Analyze(context.Background(), ds, sink)
	if err != nil {
		return err
	}

	out := os.Stdout
	if opts.OutputFile != "-" && opts.OutputFile != "" {
		f, err := os.Create(opts.OutputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if opts.OutputFormat == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printAnalysisText(out, result)
	return nil
}

func printAnalysisText(out *os.File, result *models.AnalysisResult) {
	fmt.Fprintln(out, "Analysis Results")
	fmt.Fprintln(out, "================")
	fmt.Fprintf(out, "Rows:            %d\n", result.RowCount)
	fmt.Fprintf(out, "Columns:         %d\n", result.ColumnCount)
	fmt.Fprintf(out, "Duplicate rows:  %d\n", result.DuplicateCount)
	fmt.Fprintf(out, "Quality score:   %d/100\n", result.QualityScore)

	columns := make([]string, 0, len(result.ColumnTypes))
	for col := range result.ColumnTypes {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	fmt.Fprintln(out, "\nColumns:")
	for _, col := range columns {
		stats := result.ColumnStats[col]
		fmt.Fprintf(out, "- %s (%s): %d values, %d distinct, %d nulls",
			col, result.ColumnTypes[col], stats.Count, stats.DistinctCount, result.NullCounts[col])
		if stats.Numeric != nil {
			fmt.Fprintf(out, ", mean %.2f, median %.2f, stddev %.2f",
				stats.Numeric.Mean, stats.Numeric.Median, stats.Numeric.StdDev)
		}
		if outliers := result.Outliers[col]; len(outliers) > 0 {
			fmt.Fprintf(out, ", %d outliers", len(outliers))
		}
		fmt.Fprintln(out)
	}

	if len(result.ContextualIssues) > 0 {
		fmt.Fprintf(out, "\nContextual issues (%d):\n", len(result.ContextualIssues))
		for _, issue := range result.ContextualIssues {
			fmt.Fprintf(out, "- row %d, %s [%s]: %s (value: %v)\n",
				issue.RowIndex, issue.Column, issue.Severity, issue.Issue, issue.Value)
		}
	}

	if len(result.CrossFieldIssues) > 0 {
		fmt.Fprintf(out, "\nCross-field issues (%d):\n", len(result.CrossFieldIssues))
		for _, issue := range result.CrossFieldIssues {
			fmt.Fprintf(out, "- row %d, %v [%s]: %s\n",
				issue.RowIndex, issue.Columns, issue.Severity, issue.Issue)
		}
	}
}
