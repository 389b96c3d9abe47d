// ABOUTME: Renders a user's workout records as coaching prompt text.
// ABOUTME: One line per record; empty parts are left out.
package summary

import (
	"strings"

	"github.com/harperreed/workoutlog/internal/models"
)

const (
	// Intro precedes the record lines when there are records.
	Intro = "Here are my training records. Please praise me and give me some advice."
	// Beginner is the whole text when there are no records.
	Beginner = "I don't have any training records yet. Please give encouragement and advice to someone just getting started."
)

// Summarize returns the coaching prompt for records, in the order given.
func Summarize(records []*models.Record) string {
	if len(records) == 0 {
		return Beginner
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, Line(r))
	}
	return Intro + "\n\n" + strings.Join(lines, "\n")
}

// Line formats a single record as "date / exercise / N sets / Wkg / R reps / (memo)".
func Line(r *models.Record) string {
	var parts []string
	if r.Date != "" {
		parts = append(parts, r.Date)
	}
	if r.Exercise != "" {
		parts = append(parts, r.Exercise)
	}
	if !r.Sets.IsZero() {
		parts = append(parts, r.Sets.String()+" sets")
	}
	if !r.Weight.IsZero() {
		parts = append(parts, r.Weight.String()+"kg")
	}
	if !r.Reps.IsZero() {
		parts = append(parts, r.Reps.String()+" reps")
	}
	if r.Memo != "" {
		parts = append(parts, "("+r.Memo+")")
	}
	return strings.Join(parts, " / ")
}
