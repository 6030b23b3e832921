// ABOUTME: CLI commands for listing and deleting import batches.
// ABOUTME: Deletion removes the batch and all of its entries.
package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var importsLimit int

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List imported files",
	Long: `List imported CSV files, newest first.

The ID column is an 8-character prefix you can pass to 'diet delete'.

EXAMPLES:

  diet imports            # Show the last 20 imports
  diet imports -n 5       # Show the last 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		batches, err := db.ListImports(importsLimit)
		if err != nil {
			return fmt.Errorf("failed to list imports: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(batches) == 0 {
			fmt.Fprintln(out, "No imports found.")
			return nil
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(out)
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"ID", "Imported", "Source", "Entries", "Skipped"})
		for _, b := range batches {
			tw.AppendRow(table.Row{
				shortID(b.ID.String()),
				humanize.Time(b.ImportedAt),
				truncate(b.Source, 40),
				humanize.Comma(int64(b.Entries)),
				b.Skipped,
			})
		}
		tw.Render()
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an import and its entries",
	Long: `Delete an import batch by its ID or ID prefix.

You can use either the full UUID or just the first few characters (prefix).
The ID prefix is shown in the first column of 'diet imports' output.

EXAMPLES:

  diet delete abc12345                    # Delete by 8-char prefix
  diet delete abc12345-1234-1234-...      # Delete by full UUID
  diet rm abc1                            # Short prefix (if unique)

CAUTION:

  This permanently deletes every entry from that file. There is no undo.
  If the prefix matches multiple imports, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// First, get the batch to show what we're deleting
		batch, err := db.GetImport(args[0])
		if err != nil {
			return fmt.Errorf("failed to find import: %w", err)
		}

		if err := db.DeleteImport(batch.ID.String()); err != nil {
			return fmt.Errorf("failed to delete import: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.YellowString("✗ Deleted import %s", batch.Source))
		fmt.Fprintf(out, "  %s %d entries\n",
			color.New(color.Faint).Sprint(shortID(batch.ID.String())),
			batch.Entries)

		return nil
	},
}

func init() {
	importsCmd.Flags().IntVarP(&importsLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(importsCmd)
	rootCmd.AddCommand(deleteCmd)
}
