// Package cmd wires the CLI surface: the root command and the scan command.
package cmd

import (
	"fmt"
	"os"

	"github.com/petrarca/debt-scanner/internal/types"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "debt-scanner",
	Short: "Technical debt scanner for source trees",
	Long: `Debt Scanner statically analyzes a source tree and reports technical-debt
findings: oversized files, probable dead code, debt markers, type-safety
gaps, stale dependencies, and duplicated code blocks.

Findings are classified by severity and rendered as text or JSON with a
CI-friendly exit-code contract: 0 clean, 1 critical findings, 2 high
findings, 3 invalid invocation.`,
	Version: "1.0.0",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(types.ExitUsage)
	}
}
