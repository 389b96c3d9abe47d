// ABOUTME: Root Cobra command for workoutlog CLI.
// ABOUTME: Loads config and logger in PersistentPreRunE and closes storage in PersistentPostRunE.
package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/workoutlog/internal/config"
	"github.com/harperreed/workoutlog/internal/logger"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	flagBackend string
	flagDataDir string
	flagSheet   string
	flagDebug   bool

	cfg  *config.Config
	lg   *log.Logger
	repo *storage.SheetRepository
)

var rootCmd = &cobra.Command{
	Use:   "workoutlog",
	Short: "Append-only workout log with an HTTP endpoint",
	Long: `Workoutlog keeps an append-only log of workout records in a sheet and
serves it over a two-endpoint HTTP API.

RECORDS:

  Each record has: user, date, exercise, sets, weight, reps, memo, created_at
  created_at is always set by the server when the record is written.

QUICK START:

  $ workoutlog init                                    # Create the records sheet
  $ workoutlog add --user alice --exercise squat --sets 5 --weight 80 --reps 5
  $ workoutlog list --user alice                       # Newest first
  $ workoutlog serve --addr :8080                      # POST / to write, GET /?user= to read

BACKENDS:

  sqlite     Local SQLite file (default) in ~/.local/share/workoutlog
  postgres   PostgreSQL table (postgres_url)
  sheets     Google Sheets tab (spreadsheet_id, credentials_file)
  charm      Charm KV with cloud sync
  memory     In-process, lost on exit

CONFIGURATION:

  ~/.config/workoutlog/config.json, overridden by WORKOUTLOG_* environment
  variables (a .env file in the working directory is loaded first), then
  by the global flags below.

MCP INTEGRATION:

  Run 'workoutlog mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "workoutlog": { "command": "workoutlog", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return loadConfig()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeRepo()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig builds cfg from the config file, the environment, and flags,
// then creates the logger.
func loadConfig() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(config.ExpandPath(cfgFile))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv()

	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagSheet != "" {
		cfg.Sheet = flagSheet
	}

	lg, err = logger.New(logger.Config{
		Level: cfg.GetLogLevel(),
		Debug: flagDebug,
		File:  config.ExpandPath(cfg.LogFile),
	})
	if err != nil {
		return err
	}
	log.SetDefault(lg)
	return nil
}

// openRepo opens the configured storage once per command.
func openRepo(ctx context.Context) (*storage.SheetRepository, error) {
	if repo != nil {
		return repo, nil
	}
	r, err := cfg.OpenStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}
	lg.Debug("opened storage", "backend", cfg.GetBackend(), "sheet", r.SheetName())
	repo = r
	return repo, nil
}

func closeRepo() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	return err
}

// remoteURL returns the --remote flag value or the configured remote.
func remoteURL(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.RemoteURL
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/workoutlog/config.json)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite, postgres, sheets, charm, memory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for the sqlite backend")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "sheet name (default records)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}
