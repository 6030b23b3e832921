// ABOUTME: CLI commands for exporting and restoring diet data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportFilter filterFlags
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export diet data",
	Long: `Export diet data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Summary and per-day tables (for documentation/sharing)

OPTIONS:

  --output, -o     Write to file instead of stdout
  --from, --to     Date bounds (markdown only)
  --search, -s     Text filter (markdown only)

EXAMPLES:

  diet export json                          # Export all data as JSON
  diet export json -o backup.json           # Save to file
  diet export yaml                          # Export as YAML
  diet export markdown --from 2024-03-01    # Markdown report since March 1st`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = db.ExportJSON()
		case "yaml":
			data, err = db.ExportYAML()
		case "markdown", "md":
			filter, ferr := exportFilter.filter(0)
			if ferr != nil {
				return ferr
			}
			var md string
			md, err = db.ExportMarkdown(filter)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Exported to %s", exportOutput))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup.json>",
	Short: "Restore diet data from a JSON export",
	Long: `Restore imports, entries and preferences from a 'diet export json' file.

Imports whose ID already exists are left untouched, so restoring the same
backup twice is safe. Stored preferences are replaced by the backup's.

EXAMPLES:

  diet restore backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := db.ImportJSON(data); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Restored from %s", filename))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportFilter.register(exportCmd)

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(restoreCmd)
}
