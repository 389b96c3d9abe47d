// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands through rootCmd against a temp SQLite database.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/server"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/harperreed/workoutlog/internal/summary"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var envVars = []string{
	"BACKEND", "DATA_DIR", "SHEET", "ADDR", "POSTGRES_URL", "SPREADSHEET_ID",
	"CREDENTIALS_FILE", "LOG_LEVEL", "LOG_FILE", "REMOTE_URL",
}

// setupTestCLI isolates config and data in a temp dir and returns the data dir.
func setupTestCLI(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "share"))
	for _, name := range envVars {
		t.Setenv("WORKOUTLOG_"+name, "")
	}
	t.Setenv("WORKOUTLOG_DATA_DIR", dataDir)
	t.Setenv("WORKOUTLOG_LOG_LEVEL", "error")

	color.NoColor = true
	resetFlags(rootCmd)
	t.Cleanup(func() {
		_ = closeRepo()
		resetFlags(rootCmd)
	})
	return dataDir
}

// resetFlags restores every flag of cmd and its subcommands to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes rootCmd with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	resetFlags(rootCmd)
	_ = closeRepo()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

// openTestRepo opens the SQLite database the CLI writes to.
func openTestRepo(t *testing.T, dataDir string) *storage.SheetRepository {
	t.Helper()
	db, err := storage.Open(filepath.Join(dataDir, "workoutlog.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	r := storage.NewSheetRepository(db, storage.DefaultSheetName)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "workoutlog" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "workoutlog")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}
	for _, name := range []string{"config", "backend", "data-dir", "sheet", "debug"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected --%s persistent flag", name)
		}
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"serve", "init", "add", "list", "export", "summary", "mcp", "sync"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Expected %s command to be registered", name)
		}
	}
}

func TestListCmdFlags(t *testing.T) {
	limitFlag := listCmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("Expected --limit flag on list command")
	}
	if limitFlag.DefValue != "20" {
		t.Errorf("Expected default limit 20, got %s", limitFlag.DefValue)
	}
}

func TestInitAddList(t *testing.T) {
	dataDir := setupTestCLI(t)

	out := mustRun(t, "init")
	if !strings.Contains(out, "Sheet records ready") {
		t.Errorf("Unexpected init output: %q", out)
	}

	mustRun(t, "add", "--user", "alice", "--date", "2025-01-30", "--exercise", "squat", "--sets", "5", "--weight", "80", "--reps", "5")
	mustRun(t, "add", "-u", "alice", "-d", "2025-01-31", "-e", "bench press", "--sets", "3", "--weight", "62.5", "--reps", "10", "--memo", "felt strong")
	mustRun(t, "add", "--user", "bob", "--date", "2025-02-01", "--exercise", "run")

	records, err := storage.Query(context.Background(), openTestRepo(t, dataDir), "alice")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records for alice, got %d", len(records))
	}
	if records[0].Weight != "62.5" || records[0].CreatedAt == "" {
		t.Errorf("Unexpected stored record: %+v", records[0])
	}

	out = mustRun(t, "list", "--user", "alice")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "bench press") || !strings.Contains(lines[0], "3x10 @ 62.5kg") || !strings.Contains(lines[0], "(felt strong)") {
		t.Errorf("Unexpected first line: %q", lines[0])
	}
	if strings.Contains(out, "bob") {
		t.Error("Expected bob's record to be filtered out")
	}

	out = mustRun(t, "list", "-n", "1")
	if strings.Count(strings.TrimSpace(out), "\n") != 0 || !strings.Contains(out, "run") {
		t.Errorf("Expected only the newest record, got:\n%s", out)
	}
}

func TestAddCmdWithoutInit(t *testing.T) {
	setupTestCLI(t)

	_, err := run(t, "add", "--user", "alice", "--exercise", "squat")
	if err == nil || !strings.Contains(err.Error(), "workoutlog init") {
		t.Errorf("Expected init hint, got %v", err)
	}
}

func TestAddCmdRequiresUser(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "init")

	if _, err := run(t, "add", "--exercise", "squat"); err == nil {
		t.Error("Expected error when --user is missing")
	}
}

func TestListCmdMissingSheet(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "list")
	if !strings.Contains(out, "No records found.") {
		t.Errorf("Expected empty listing, got %q", out)
	}
}

func TestSheetFlag(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "--sheet", "lifts", "init")
	mustRun(t, "--sheet", "lifts", "add", "--user", "alice", "--exercise", "deadlift")

	out := mustRun(t, "list")
	if !strings.Contains(out, "No records found.") {
		t.Errorf("Default sheet should still be missing, got %q", out)
	}
	out = mustRun(t, "--sheet", "lifts", "list")
	if !strings.Contains(out, "deadlift") {
		t.Errorf("Expected record in lifts sheet, got %q", out)
	}
}

func TestConfigFileFlag(t *testing.T) {
	setupTestCLI(t)
	t.Setenv("WORKOUTLOG_DATA_DIR", "")

	otherDir := filepath.Join(t.TempDir(), "elsewhere")
	path := filepath.Join(t.TempDir(), "config.json")
	data, _ := json.Marshal(map[string]string{"backend": "sqlite", "data_dir": otherDir})
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	mustRun(t, "--config", path, "init")
	if _, err := os.Stat(filepath.Join(otherDir, "workoutlog.db")); err != nil {
		t.Errorf("Expected database in configured data dir: %v", err)
	}
}

func TestUnknownBackend(t *testing.T) {
	setupTestCLI(t)

	_, err := run(t, "--backend", "floppy", "init")
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("Expected unknown backend error, got %v", err)
	}
}

func TestAddAndListRemote(t *testing.T) {
	setupTestCLI(t)

	remote := storage.NewSheetRepository(storage.NewMemoryWorkbook(), storage.DefaultSheetName)
	if err := remote.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	srv := httptest.NewServer(server.New(server.Config{Repo: remote}).Handler())
	defer srv.Close()

	mustRun(t, "add", "--user", "alice", "--exercise", "squat", "--sets", "5", "--remote", srv.URL)

	all, err := remote.QueryAll(context.Background())
	if err != nil {
		t.Fatalf("QueryAll failed: %v", err)
	}
	if len(all) != 1 || all[0].Sets != "5" {
		t.Fatalf("Expected remote record, got %+v", all)
	}

	t.Setenv("WORKOUTLOG_REMOTE_URL", srv.URL)
	out := mustRun(t, "list", "--user", "alice")
	if !strings.Contains(out, "squat") {
		t.Errorf("Expected remote record in listing, got %q", out)
	}
}

func TestExportCmd(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "init")
	mustRun(t, "add", "--user", "alice", "--date", "2025-01-31", "--exercise", "squat", "--memo", "heavy, slow")

	out := mustRun(t, "export", "csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header plus 1 row, got:\n%s", out)
	}
	if lines[0] != strings.Join(models.Columns, ",") {
		t.Errorf("Unexpected CSV header %q", lines[0])
	}
	if !strings.Contains(lines[1], `"heavy, slow"`) {
		t.Errorf("Expected quoted memo, got %q", lines[1])
	}

	out = mustRun(t, "export", "yaml", "--user", "bob")
	if !strings.Contains(out, "records: []") {
		t.Errorf("Expected empty YAML records for bob, got:\n%s", out)
	}

	tmpFile := filepath.Join(t.TempDir(), "export.json")
	mustRun(t, "export", "json", "--output", tmpFile)

	data, err := os.ReadFile(tmpFile)
	if err != nil {
		t.Fatalf("Expected export file: %v", err)
	}
	var export storage.ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}
	if len(export.Records) != 1 || export.Records[0].Exercise != "squat" {
		t.Errorf("Unexpected export: %+v", export)
	}
}

func TestExportInvalidFormat(t *testing.T) {
	setupTestCLI(t)

	if _, err := run(t, "export", "xml"); err == nil {
		t.Error("Expected error for invalid export format")
	}
}

func TestSummaryCmd(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "summary", "--user", "alice")
	if strings.TrimSpace(out) != summary.Beginner {
		t.Errorf("Expected beginner prompt, got %q", out)
	}

	mustRun(t, "init")
	mustRun(t, "add", "--user", "alice", "--date", "2025-01-31", "--exercise", "squat", "--sets", "5", "--reps", "5")

	out = mustRun(t, "summary", "--user", "alice")
	if !strings.HasPrefix(out, summary.Intro) {
		t.Errorf("Expected intro, got %q", out)
	}
	if !strings.Contains(out, "2025-01-31 / squat / 5 sets / 5 reps") {
		t.Errorf("Expected record line, got %q", out)
	}
}

func TestFormatDetails(t *testing.T) {
	tests := []struct {
		rec  *models.Record
		want string
	}{
		{models.NewRecord("a", "d", "e").WithSets(3).WithReps(10).WithWeight(60), "3x10 @ 60kg"},
		{models.NewRecord("a", "d", "e").WithSets(3), "3 sets"},
		{models.NewRecord("a", "d", "e").WithReps(12), "12 reps"},
		{models.NewRecord("a", "d", "e").WithWeight(20.5), "20.5kg"},
		{models.NewRecord("a", "d", "e"), ""},
	}

	for _, tt := range tests {
		if got := formatDetails(tt.rec); got != tt.want {
			t.Errorf("formatDetails(%+v) = %q, want %q", tt.rec, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a long memo", 10, "this is..."},
		{"ベンチプレス", 20, "ベンチプレス"},
		{"今日はベンチプレスで自己ベスト", 10, "今日は..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q, want %q", got, "ab  ")
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Errorf("padRight = %q, want %q", got, "abcdef")
	}
	if got := padRight("スクワット", 12); got != "スクワット  " {
		t.Errorf("padRight = %q, want %q", got, "スクワット  ")
	}
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	got := truncate("memo: 5kmジョギング、ゆっくり", 15)
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
}
