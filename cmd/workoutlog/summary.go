// ABOUTME: CLI command for printing a coaching summary of records.
// ABOUTME: Produces the prompt text handed to an AI coach.
package main

import (
	"fmt"

	"github.com/harperreed/workoutlog/internal/summary"
	"github.com/spf13/cobra"
)

var (
	summaryUser   string
	summaryRemote string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a coaching summary of workout records",
	Long: `Print a user's records as one line each, newest first, after a request
for praise and advice. With no records, print an encouragement request for a
beginner instead.

EXAMPLES:

  workoutlog summary --user alice
  workoutlog summary --user alice --remote http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := fetchRecords(cmd, summaryUser, summaryRemote)
		if err != nil {
			return fmt.Errorf("failed to read records: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), summary.Summarize(records))
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryUser, "user", "u", "", "only records of this user")
	summaryCmd.Flags().StringVar(&summaryRemote, "remote", "", "server URL to read from")
	rootCmd.AddCommand(summaryCmd)
}
