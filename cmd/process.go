// =============================================================================
// Receipt Normalizer - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the full normalization
// pipeline over one input file and prints the validation report and dataset
// insights. The engine writes no output files; this command is the terminal
// surface over the in-memory results.
//
// COMMAND USAGE:
//   receipt-normalizer process --file <path> [flags]
//
// FLAGS:
//   --file             : Path to the input file (.csv, .txt or .xlsx)
//   --profile          : Optional YAML mapping profile with extra header aliases
//   --strict           : Promote soft concerns to hard errors
//   --no-auto-correct  : Disable all repair and defaulting behavior
//
// =============================================================================

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/recibos-tools/receipt-normalizer/internal/config"
	"github.com/recibos-tools/receipt-normalizer/internal/engine"
	"github.com/recibos-tools/receipt-normalizer/internal/types"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// inputFile is the path to the file to process.
var inputFile string

// profilePath is an optional YAML mapping profile.
var profilePath string

// strictValidation promotes soft concerns to hard errors.
var strictValidation bool

// noAutoCorrect disables repair and defaulting.
var noAutoCorrect bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Validate and normalize one receipt spreadsheet",
	Long: `The process command reads one landlord spreadsheet, resolves its columns to
the canonical receipt fields, validates and normalizes every row, and prints
the resulting report.

Rows with hard errors are excluded from the accepted set but never abort the
run; one malformed row cannot lose the rest of the file. Every automatic
correction is listed so the output remains auditable.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the process command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(
		&inputFile,
		"file",
		"",
		"Path to the input file (.csv, .txt or .xlsx)",
	)
	processCmd.MarkFlagRequired("file")

	processCmd.Flags().StringVar(
		&profilePath,
		"profile",
		"",
		"Path to a YAML mapping profile with extra header aliases",
	)

	processCmd.Flags().BoolVar(
		&strictValidation,
		"strict",
		false,
		"Promote long-span and future-payment-date concerns to hard errors",
	)

	processCmd.Flags().BoolVar(
		&noAutoCorrect,
		"no-auto-correct",
		false,
		"Disable all automatic repair and defaulting",
	)
}

// =============================================================================
// MAIN PROCESSING LOGIC
// =============================================================================

// runProcess builds the options, runs the pipeline, and prints the report.
func runProcess() error {
	opts := config.DefaultOptions()
	opts.AutoCorrect = !noAutoCorrect
	opts.StrictValidation = strictValidation

	if profilePath != "" {
		profile, err := config.LoadProfile(profilePath)
		if err != nil {
			return fmt.Errorf("failed to load mapping profile: %w", err)
		}
		opts.Apply(profile)
	}

	processor := engine.New(inputFile, opts)
	if !verbose {
		processor.SetLogger(&quietLogger{})
	}

	result := processor.Run()
	if !result.Success {
		return result.Error
	}

	printResult(result.Pipeline)
	return nil
}

// =============================================================================
// REPORT OUTPUT
// =============================================================================

// printResult renders the pipeline result to stdout.
func printResult(p *types.PipelineResult) {
	fmt.Printf("Run %s: %s\n", p.RunID, p.SourceFile)

	for _, w := range p.FileWarnings {
		fmt.Printf("  note: %s\n", w)
	}

	// Resolved column mapping, in canonical field order.
	fmt.Println("\nColumn mapping:")
	for _, field := range types.AllFields() {
		if header, ok := p.Mapping[field]; ok {
			fmt.Printf("  %-12s <- %q\n", field, header)
		}
	}

	report := p.Report
	fmt.Printf("\nRows: %d total, %d valid, %d rejected, %d with warnings\n",
		report.TotalRows, report.ValidRows, report.ErrorRows, report.WarningRows)

	if len(report.Errors) > 0 {
		fmt.Println("\nErrors:")
		for _, e := range report.Errors {
			fmt.Printf("  row %d: %s\n", e.RowNumber, e.Message)
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range report.Warnings {
			fmt.Printf("  row %d: %s\n", w.RowNumber, w.Message)
		}
	}

	if len(report.Corrections) > 0 {
		fmt.Println("\nCorrections:")
		rows := make([]int, 0, len(report.Corrections))
		for row := range report.Corrections {
			rows = append(rows, row)
		}
		sort.Ints(rows)
		for _, row := range rows {
			for _, c := range report.Corrections[row] {
				fmt.Printf("  row %d: %s\n", row, c.String())
			}
		}
	}

	printInsights(p.Insights)
}

// printInsights renders the dataset-level summary.
func printInsights(in types.DatasetInsights) {
	fmt.Printf("\nInsights:\n")
	fmt.Printf("  success rate:     %.1f%%\n", in.SuccessRate)
	fmt.Printf("  quality score:    %.1f\n", in.QualityScore)
	fmt.Printf("  unique contracts: %d\n", in.UniqueContracts)

	if in.DateRange.Start != "" {
		fmt.Printf("  date range:       %s .. %s\n", in.DateRange.Start, in.DateRange.End)
	}
	if !in.ValueRange.Max.IsZero() {
		fmt.Printf("  value range:      %s .. %s\n", in.ValueRange.Min.String(), in.ValueRange.Max.String())
	}

	if len(in.ReceiptTypes) > 0 {
		receiptTypes := make([]string, 0, len(in.ReceiptTypes))
		for t := range in.ReceiptTypes {
			receiptTypes = append(receiptTypes, t)
		}
		sort.Strings(receiptTypes)
		fmt.Printf("  receipt types:   ")
		for _, t := range receiptTypes {
			fmt.Printf(" %s=%d", t, in.ReceiptTypes[t])
		}
		fmt.Println()
	}
}

// quietLogger drops debug/info chatter unless --verbose is set; warnings and
// errors still surface through the report itself.
type quietLogger struct{}

func (l *quietLogger) Debug(msg string, args ...interface{}) {}
func (l *quietLogger) Info(msg string, args ...interface{})  {}
func (l *quietLogger) Warn(msg string, args ...interface{})  {}
func (l *quietLogger) Error(msg string, args ...interface{}) {}
