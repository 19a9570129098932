// =============================================================================
// Receipt Normalizer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (receipt-normalizer)
//   ├── processCmd (receipt-normalizer process)
//   └── versionCmd (receipt-normalizer version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// verbose enables verbose logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "receipt-normalizer",

	Short: "Receipt Normalizer - Validate and normalize rental receipt spreadsheets",

	Long: `Receipt Normalizer ingests landlord-supplied spreadsheets describing rental
receipts and turns them into a canonical, auditable record set for tax-receipt
issuance.

Input files come from many landlords with inconsistent column names, mixed
Portuguese/English headers, mixed date conventions, and mixed currency
formats. The engine resolves columns by fuzzy matching, repairs and
normalizes each field, validates every row, and reports every correction it
makes. Nothing is ever silently fabricated: a change is either recorded as a
warning or the row is rejected with a hard error.

Example Usage:
  receipt-normalizer process --file recibos.csv
  receipt-normalizer process --file recibos.csv --strict
  receipt-normalizer process --file recibos.xlsx --profile landlord.yaml`,

	Run: func(cmd *cobra.Command, args []string) {
		// No subcommand: print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// --verbose flag: Enables verbose/debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
