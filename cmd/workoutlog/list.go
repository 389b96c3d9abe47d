// ABOUTME: CLI command for listing workout records.
// ABOUTME: Supports filtering by user and limiting results.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/client"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var (
	listUser   string
	listLimit  int
	listRemote string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List workout records",
	Long: `List workout records, newest date first.

OUTPUT FORMAT:

  Each line shows: DATE  USER  EXERCISE  DETAILS  (MEMO)

  Dates are compared as text, so use YYYY-MM-DD for correct ordering.

EXAMPLES:

  workoutlog list                       # Last 20 records of every user
  workoutlog list --user alice          # Only alice (exact match)
  workoutlog list -u alice -n 50        # Last 50 of alice's records
  workoutlog list --remote http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := fetchRecords(cmd, listUser, listRemote)
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No records found.")
			return nil
		}
		if listLimit > 0 && len(records) > listLimit {
			records = records[:listLimit]
		}

		faint := color.New(color.Faint)
		for _, r := range records {
			memo := ""
			if r.Memo != "" {
				memo = faint.Sprintf(" (%s)", truncate(r.Memo, 30))
			}
			fmt.Fprintf(out, "%s %s %s %s%s\n",
				faint.Sprint(padRight(r.Date, 10)),
				padRight(r.User, 12),
				padRight(r.Exercise, 16),
				formatDetails(r),
				memo)
		}
		return nil
	},
}

// fetchRecords reads records of user from the remote server when one is
// configured, otherwise from local storage. A missing sheet reads as empty.
func fetchRecords(cmd *cobra.Command, user, remoteFlag string) ([]*models.Record, error) {
	if url := remoteURL(remoteFlag); url != "" {
		return client.New(url).List(cmd.Context(), user)
	}

	r, err := openRepo(cmd.Context())
	if err != nil {
		return nil, err
	}
	records, err := storage.Query(cmd.Context(), r, user)
	if err != nil {
		if errors.Is(err, storage.ErrSheetNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}

// formatDetails renders sets, reps, and weight as "3x10 @ 60kg", skipping
// empty ones.
func formatDetails(r *models.Record) string {
	var details string
	switch {
	case !r.Sets.IsZero() && !r.Reps.IsZero():
		details = r.Sets.String() + "x" + r.Reps.String()
	case !r.Sets.IsZero():
		details = r.Sets.String() + " sets"
	case !r.Reps.IsZero():
		details = r.Reps.String() + " reps"
	}
	if !r.Weight.IsZero() {
		if details != "" {
			details += " @ "
		}
		details += r.Weight.String() + "kg"
	}
	return details
}

// truncate shortens s to maxLen terminal columns, ending in "...".
func truncate(s string, maxLen int) string {
	return runewidth.Truncate(s, maxLen, "...")
}

// padRight pads s with spaces to length terminal columns.
func padRight(s string, length int) string {
	return runewidth.FillRight(s, length)
}

func init() {
	listCmd.Flags().StringVarP(&listUser, "user", "u", "", "only records of this user")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	listCmd.Flags().StringVar(&listRemote, "remote", "", "server URL to read from")
	rootCmd.AddCommand(listCmd)
}
