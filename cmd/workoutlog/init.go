// ABOUTME: CLI command for creating the records sheet.
// ABOUTME: Writes the header row; safe to run more than once.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the records sheet",
	Long: `Create the configured sheet with its header row.

The first row of the sheet is always treated as the header when reading, so
records are only stored in sheets created this way. Running init on an
existing sheet leaves it untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo(cmd.Context())
		if err != nil {
			return err
		}
		if err := r.Init(cmd.Context()); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Sheet %s ready (%s)", r.SheetName(), cfg.GetBackend()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
