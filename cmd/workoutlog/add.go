// ABOUTME: CLI command for appending workout records.
// ABOUTME: Writes to local storage or to a running server with --remote.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/client"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	addUser     string
	addDate     string
	addExercise string
	addSets     int
	addWeight   float64
	addReps     int
	addMemo     string
	addRemote   string
)

var addCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"a"},
	Short:   "Add a workout record",
	Long: `Append a workout record. created_at is set when the record is stored.

Zero sets, weight, or reps are left empty in the record.

Examples:
  workoutlog add --user alice --exercise "bench press" --sets 3 --weight 60 --reps 10
  workoutlog add --user alice --date 2025-01-31 --exercise run --memo "5km easy"
  workoutlog add --user alice --exercise squat --remote http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date := addDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}

		r := models.NewRecord(addUser, date, addExercise)
		if addSets != 0 {
			r.WithSets(addSets)
		}
		if addWeight != 0 {
			r.WithWeight(addWeight)
		}
		if addReps != 0 {
			r.WithReps(addReps)
		}
		if addMemo != "" {
			r.WithMemo(addMemo)
		}

		if url := remoteURL(addRemote); url != "" {
			if err := client.New(url).Append(cmd.Context(), r); err != nil {
				return fmt.Errorf("failed to add record: %w", err)
			}
		} else {
			repo, err := openRepo(cmd.Context())
			if err != nil {
				return err
			}
			if err := repo.Append(cmd.Context(), r); err != nil {
				if errors.Is(err, storage.ErrSheetNotFound) {
					return fmt.Errorf("sheet %s not found: run 'workoutlog init' first", repo.SheetName())
				}
				return fmt.Errorf("failed to add record: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Added %s", r.Exercise))
		fmt.Fprintf(out, "  %s %s\n", color.New(color.Faint).Sprint(r.Date), formatDetails(r))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addUser, "user", "u", "", "user the record belongs to")
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "workout date (default today, YYYY-MM-DD)")
	addCmd.Flags().StringVarP(&addExercise, "exercise", "e", "", "exercise name")
	addCmd.Flags().IntVar(&addSets, "sets", 0, "number of sets")
	addCmd.Flags().Float64Var(&addWeight, "weight", 0, "weight in kg")
	addCmd.Flags().IntVar(&addReps, "reps", 0, "repetitions per set")
	addCmd.Flags().StringVar(&addMemo, "memo", "", "free-text note")
	addCmd.Flags().StringVar(&addRemote, "remote", "", "server URL to send the record to")
	_ = addCmd.MarkFlagRequired("user")
	_ = addCmd.MarkFlagRequired("exercise")
	rootCmd.AddCommand(addCmd)
}
