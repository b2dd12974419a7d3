// Package main provides the entry point for the docscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for docscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docscan",
		Short: "Documentation integrity checker for Markdown/MDX trees",
		Long: `Docscan checks documentation trees for integrity issues.

It loads every Markdown/MDX page under a root directory, builds an index
of heading anchors, and then verifies that internal links resolve, anchors
are unique, and embedded code snippets are structurally well formed.

The scan exits with a non-zero status when any error-severity finding is
reported, making it suitable as a CI gate.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
