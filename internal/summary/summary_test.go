package summary

import (
	"testing"

	"github.com/harperreed/workoutlog/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		rec  *models.Record
		want string
	}{
		{
			name: "full",
			rec:  models.NewRecord("alice", "2025-01-31", "bench press").WithSets(3).WithWeight(62.5).WithReps(8).WithMemo("felt strong"),
			want: "2025-01-31 / bench press / 3 sets / 62.5kg / 8 reps / (felt strong)",
		},
		{
			name: "zero quantities dropped",
			rec:  models.NewRecord("alice", "2025-01-31", "plank").WithSets(0).WithReps(0),
			want: "2025-01-31 / plank",
		},
		{
			name: "text quantity kept",
			rec:  &models.Record{Date: "2025-02-01", Exercise: "run", Reps: "many"},
			want: "2025-02-01 / run / many reps",
		},
		{
			name: "empty record",
			rec:  &models.Record{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Line(tt.rec))
		})
	}
}

func TestSummarize(t *testing.T) {
	records := []*models.Record{
		models.NewRecord("alice", "2025-01-31", "squat").WithSets(5),
		models.NewRecord("alice", "2025-01-30", "deadlift").WithWeight(120),
	}

	want := Intro + "\n\n" +
		"2025-01-31 / squat / 5 sets\n" +
		"2025-01-30 / deadlift / 120kg"
	assert.Equal(t, want, Summarize(records))
}

func TestSummarizeNoRecords(t *testing.T) {
	assert.Equal(t, Beginner, Summarize(nil))
	assert.Equal(t, Beginner, Summarize([]*models.Record{}))
}
