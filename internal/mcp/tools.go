// ABOUTME: MCP tool implementations for workout records.
// ABOUTME: Provides append, list, and coaching summary tools.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/harperreed/workoutlog/internal/summary"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

func (s *Server) registerTools() {
	// add_record
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_record",
		Description: "Append a workout record (exercise, sets, weight, reps) for a user",
	}, s.handleAddRecord)

	// list_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List workout records newest first, optionally for one user",
	}, s.handleListRecords)

	// summarize_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "summarize_records",
		Description: "Summarize a user's workout records as text for coaching feedback",
	}, s.handleSummarizeRecords)
}

// Tool input/output types

type addRecordInput struct {
	User     string  `json:"user" jsonschema:"User the record belongs to"`
	Date     string  `json:"date,omitempty" jsonschema:"Workout date (YYYY-MM-DD), defaults to today"`
	Exercise string  `json:"exercise" jsonschema:"Exercise name (bench press, squat, run, etc.)"`
	Sets     int     `json:"sets,omitempty" jsonschema:"Number of sets"`
	Weight   float64 `json:"weight,omitempty" jsonschema:"Weight in kg"`
	Reps     int     `json:"reps,omitempty" jsonschema:"Repetitions per set"`
	Memo     string  `json:"memo,omitempty" jsonschema:"Optional free-text note"`
}

type recordOutput struct {
	User      string `json:"user"`
	Date      string `json:"date"`
	Exercise  string `json:"exercise"`
	Sets      string `json:"sets"`
	Weight    string `json:"weight"`
	Reps      string `json:"reps"`
	Memo      string `json:"memo"`
	CreatedAt string `json:"created_at"`
}

type addRecordOutput struct {
	Record  recordOutput `json:"record"`
	Message string       `json:"message"`
}

type listRecordsInput struct {
	User  string `json:"user,omitempty" jsonschema:"Only records of this user (exact match)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type listRecordsOutput struct {
	Records []recordOutput `json:"records"`
	Message string         `json:"message,omitempty"`
}

type summarizeInput struct {
	User string `json:"user,omitempty" jsonschema:"Only records of this user (exact match)"`
}

type summarizeOutput struct {
	Summary string `json:"summary"`
	Count   int    `json:"count"`
}

// Tool handlers

func (s *Server) handleAddRecord(ctx context.Context, req *mcp.CallToolRequest, input addRecordInput) (*mcp.CallToolResult, addRecordOutput, error) {
	if input.User == "" {
		return nil, addRecordOutput{}, fmt.Errorf("user is required")
	}
	if input.Exercise == "" {
		return nil, addRecordOutput{}, fmt.Errorf("exercise is required")
	}

	date := input.Date
	if date == "" {
		date = s.now().Format("2006-01-02")
	}

	r := models.NewRecord(input.User, date, input.Exercise)
	if input.Sets != 0 {
		r.WithSets(input.Sets)
	}
	if input.Weight != 0 {
		r.WithWeight(input.Weight)
	}
	if input.Reps != 0 {
		r.WithReps(input.Reps)
	}
	if input.Memo != "" {
		r.WithMemo(input.Memo)
	}

	if err := s.repo.Append(ctx, r); err != nil {
		if errors.Is(err, storage.ErrSheetNotFound) {
			return nil, addRecordOutput{}, fmt.Errorf("sheet not found: run 'workoutlog init' first")
		}
		return nil, addRecordOutput{}, fmt.Errorf("failed to append record: %w", err)
	}

	return nil, addRecordOutput{
		Record:  toOutput(r),
		Message: fmt.Sprintf("Added %s for %s on %s", r.Exercise, r.User, r.Date),
	}, nil
}

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, listRecordsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}

	records, err := s.query(ctx, input.User)
	if err != nil {
		return nil, listRecordsOutput{}, fmt.Errorf("failed to list records: %w", err)
	}

	if len(records) == 0 {
		return nil, listRecordsOutput{Records: []recordOutput{}, Message: "No records found."}, nil
	}
	if len(records) > input.Limit {
		records = records[:input.Limit]
	}

	return nil, listRecordsOutput{Records: toOutputs(records)}, nil
}

func (s *Server) handleSummarizeRecords(ctx context.Context, req *mcp.CallToolRequest, input summarizeInput) (*mcp.CallToolResult, summarizeOutput, error) {
	records, err := s.query(ctx, input.User)
	if err != nil {
		return nil, summarizeOutput{}, fmt.Errorf("failed to read records: %w", err)
	}

	return nil, summarizeOutput{
		Summary: summary.Summarize(records),
		Count:   len(records),
	}, nil
}

// query reads records like the HTTP read endpoint: a missing sheet is empty.
func (s *Server) query(ctx context.Context, user string) ([]*models.Record, error) {
	records, err := storage.Query(ctx, s.repo, user)
	if errors.Is(err, storage.ErrSheetNotFound) {
		return nil, nil
	}
	return records, err
}

func toOutput(r *models.Record) recordOutput {
	return recordOutput{
		User:      r.User,
		Date:      r.Date,
		Exercise:  r.Exercise,
		Sets:      r.Sets.String(),
		Weight:    r.Weight.String(),
		Reps:      r.Reps.String(),
		Memo:      r.Memo,
		CreatedAt: r.CreatedAt,
	}
}

func toOutputs(records []*models.Record) []recordOutput {
	out := make([]recordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, toOutput(r))
	}
	return out
}
