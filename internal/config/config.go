// ABOUTME: Workoutlog configuration management with backend selection.
// ABOUTME: Handles the config file, environment overrides, and the storage backend factory.

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/workoutlog/internal/charm"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/joho/godotenv"
)

// DefaultAddr is the HTTP listen address when none is configured.
const DefaultAddr = ":8080"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WORKOUTLOG_"

// Config stores workoutlog configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "postgres",
	// "sheets", "charm", or "memory".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts workoutlog.db here. Supports ~ expansion for home directory.
	// Defaults to ~/.local/share/workoutlog.
	DataDir string `json:"data_dir,omitempty"`

	// Sheet names the sheet (table, tab, key family) records live in.
	Sheet string `json:"sheet,omitempty"`

	// Addr is the HTTP listen address for serve.
	Addr string `json:"addr,omitempty"`

	PostgresURL     string `json:"postgres_url,omitempty"`
	SpreadsheetID   string `json:"spreadsheet_id,omitempty"`
	CredentialsFile string `json:"credentials_file,omitempty"`

	LogLevel string `json:"log_level,omitempty"`
	LogFile  string `json:"log_file,omitempty"`

	// RemoteURL points CLI commands at a running server instead of local storage.
	RemoteURL string `json:"remote_url,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetSheet returns the configured sheet name, defaulting to "records".
func (c *Config) GetSheet() string {
	if c.Sheet == "" {
		return storage.DefaultSheetName
	}
	return c.Sheet
}

// GetAddr returns the configured listen address.
func (c *Config) GetAddr() string {
	if c.Addr == "" {
		return DefaultAddr
	}
	return c.Addr
}

// GetLogLevel returns the configured log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// ApplyEnv overrides fields from WORKOUTLOG_* environment variables.
// Unset or empty variables leave the field alone.
func (c *Config) ApplyEnv() {
	overrides := map[string]*string{
		"BACKEND":          &c.Backend,
		"DATA_DIR":         &c.DataDir,
		"SHEET":            &c.Sheet,
		"ADDR":             &c.Addr,
		"POSTGRES_URL":     &c.PostgresURL,
		"SPREADSHEET_ID":   &c.SpreadsheetID,
		"CREDENTIALS_FILE": &c.CredentialsFile,
		"LOG_LEVEL":        &c.LogLevel,
		"LOG_FILE":         &c.LogFile,
		"REMOTE_URL":       &c.RemoteURL,
	}
	for name, field := range overrides {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*field = v
		}
	}
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// OpenWorkbook opens the configured storage backend.
func (c *Config) OpenWorkbook(ctx context.Context) (storage.Workbook, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case "sqlite":
		dbPath := filepath.Join(dataDir, "workoutlog.db")
		return storage.Open(dbPath)
	case "postgres":
		return storage.OpenPostgres(ctx, c.PostgresURL)
	case "sheets":
		return storage.OpenSheets(ctx, storage.SheetsConfig{
			SpreadsheetID:   c.SpreadsheetID,
			CredentialsFile: ExpandPath(c.CredentialsFile),
		})
	case "charm":
		client, err := charm.InitClient()
		if err != nil {
			return nil, fmt.Errorf("init charm client: %w", err)
		}
		return charm.NewWorkbook(client), nil
	case "memory":
		return storage.NewMemoryWorkbook(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// OpenStorage creates a Repository over the configured backend and sheet.
func (c *Config) OpenStorage(ctx context.Context) (*storage.SheetRepository, error) {
	book, err := c.OpenWorkbook(ctx)
	if err != nil {
		return nil, err
	}
	return storage.NewSheetRepository(book, c.GetSheet()), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "workoutlog", "config.json")
}

// Load reads config from the default path.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path. A missing file yields an empty config.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
