// ABOUTME: CLI command for exporting workout records.
// ABOUTME: Supports JSON, YAML, and CSV export formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportUser   string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export workout records",
	Long: `Export workout records in various formats.

FORMATS:

  json   Full JSON export (suitable for backup)
  yaml   YAML export (human-readable)
  csv    One line per record in column order, with a header line

OPTIONS:

  --output, -o   Write to file instead of stdout
  --user, -u     Only records of this user

EXAMPLES:

  workoutlog export json                   # Export all records as JSON
  workoutlog export json -o backup.json    # Save to file
  workoutlog export csv --user alice       # alice's records as CSV`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "csv"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var render func(*storage.ExportData) ([]byte, error)
		switch format {
		case "json":
			render = storage.ExportJSON
		case "yaml":
			render = storage.ExportYAML
		case "csv":
			render = storage.ExportCSV
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or csv)", format)
		}

		r, err := openRepo(cmd.Context())
		if err != nil {
			return err
		}
		export, err := storage.GetAllData(cmd.Context(), r, exportUser)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		data, err := render(export)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Exported %d records to %s", len(export.Records), exportOutput))
		} else {
			fmt.Fprint(cmd.OutOrStdout(), string(data))
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportUser, "user", "u", "", "only records of this user")
	rootCmd.AddCommand(exportCmd)
}
