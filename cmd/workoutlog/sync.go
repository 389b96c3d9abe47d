// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports link, status, now, and reset operations.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/charm"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync records across devices (charm backend)",
	Long: `Sync records across devices using Charm Cloud.

These commands apply to the charm backend. Data is E2E encrypted with your
SSH key before upload.

COMMANDS:

  link     Link this device to your Charm account
  status   Show sync status and account info
  now      Sync immediately
  reset    Reset local data and restore from cloud (destructive)

Data syncs automatically after each write.`,
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Use charm CLI to link
		charmCmd := exec.Command("charm", "link")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("\n✓ Device linked to Charm"))
		return syncNow(cmd)
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		c, err := charm.InitClient()
		if err != nil {
			return fmt.Errorf("failed to initialize charm client: %w", err)
		}

		id, err := c.ID()
		if err != nil {
			fmt.Fprintln(out, color.YellowString("Not linked to Charm"))
			fmt.Fprintln(out, "\nRun 'workoutlog sync link' to connect to Charm.")
			return nil
		}

		fmt.Fprintln(out, "Charm ID:", id)
		fmt.Fprintln(out, "Server:", os.Getenv("CHARM_HOST"))
		if c.IsReadOnly() {
			fmt.Fprintln(out, color.YellowString("Read-only: another process holds the database"))
		}

		repo := storage.NewSheetRepository(charm.NewWorkbook(c), cfg.GetSheet())
		records, err := repo.QueryAll(cmd.Context())
		if err != nil {
			fmt.Fprintf(out, "  Sheet %s: %v\n", repo.SheetName(), err)
			return nil
		}

		fmt.Fprintln(out, color.GreenString("✓ Connected to Charm"))
		fmt.Fprintf(out, "  Records in %s: %d\n", repo.SheetName(), len(records))
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		return syncNow(cmd)
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	Long: `Delete all local data and restore from Charm Cloud.

This is a destructive operation. All local data will be lost and restored from cloud.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		// Confirm
		fmt.Fprintln(out, "This will DELETE all local workout data and restore from cloud.")
		fmt.Fprint(out, "Continue? [y/N]: ")
		var confirm string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}

		c, err := charm.InitClient()
		if err != nil {
			return fmt.Errorf("failed to initialize charm client: %w", err)
		}
		if err := c.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		fmt.Fprintln(out, color.GreenString("✓ Local data reset and restored from cloud"))
		return nil
	},
}

func syncNow(cmd *cobra.Command) error {
	c, err := charm.InitClient()
	if err != nil {
		return fmt.Errorf("failed to initialize charm client: %w", err)
	}
	if err := c.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Sync complete"))
	return nil
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncResetCmd)

	rootCmd.AddCommand(syncCmd)
}
