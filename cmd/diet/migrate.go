// ABOUTME: CLI command for copying all data to another diet database.
// ABOUTME: Used to move the store to a new location or machine.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/diet/internal/config"
	"github.com/harperreed/diet/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate --to <path>",
	Short: "Copy all data to another database",
	Long: `Copy preferences, imports and entries into a new diet database.

The destination must not exist yet or be empty; existing data is never
merged or overwritten. The current database is left unchanged.

USAGE:

  diet migrate --to ~/sync/diet.db --dry-run   # Preview what would be copied
  diet migrate --to ~/sync/diet.db             # Copy the data

AFTER MIGRATION:

  Point diet at the new file with --db, or set "data_dir" in
  ~/.config/diet/config.json to its directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo == "" {
			return fmt.Errorf("--to is required")
		}
		dest := config.ExpandPath(migrateTo)

		nonEmpty, err := storage.FileNonEmpty(dest)
		if err != nil {
			return err
		}
		if nonEmpty {
			return fmt.Errorf("destination %s already exists and is not empty", dest)
		}

		out := cmd.OutOrStdout()
		if migrateDryRun {
			fmt.Fprintln(out, color.YellowString("Dry run mode - no changes will be made"))
			batches, err := db.ListImports(0)
			if err != nil {
				return fmt.Errorf("failed to list imports: %w", err)
			}
			entries := 0
			for _, b := range batches {
				entries += b.Entries
			}
			fmt.Fprintf(out, "Would copy preferences, %d imports and %d entries to %s\n", len(batches), entries, dest)
			return nil
		}

		dst, err := storage.Open(dest)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer dst.Close()

		summary, err := storage.MigrateData(db, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Fprintln(out, color.GreenString("✓ Copied %d imports and %d entries to %s", summary.Imports, summary.Entries, dest))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination database path")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
