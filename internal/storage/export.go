// ABOUTME: Export functionality for workout records.
// ABOUTME: Supports JSON, YAML, and CSV export formats.
package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/workoutlog/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for workout records.
type ExportData struct {
	Version    string           `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Tool       string           `json:"tool" yaml:"tool"`
	Sheet      string           `json:"sheet" yaml:"sheet"`
	User       string           `json:"user,omitempty" yaml:"user,omitempty"`
	Records    []*models.Record `json:"records" yaml:"records"`
}

// GetAllData gathers the records of user (all users when empty) for export.
func GetAllData(ctx context.Context, repo *SheetRepository, user string) (*ExportData, error) {
	records, err := Query(ctx, repo, user)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "workoutlog",
		Sheet:      repo.SheetName(),
		User:       user,
		Records:    records,
	}, nil
}

// ExportJSON renders data as indented JSON.
func ExportJSON(data *ExportData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML renders data as YAML.
func ExportYAML(data *ExportData) ([]byte, error) {
	return yaml.Marshal(data)
}

// ExportCSV renders the records as CSV with a header line in column order.
func ExportCSV(data *ExportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(models.Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range data.Records {
		line := []string{
			r.User,
			r.Date,
			r.Exercise,
			r.Sets.String(),
			r.Weight.String(),
			r.Reps.String(),
			r.Memo,
			r.CreatedAt,
		}
		if err := w.Write(line); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
