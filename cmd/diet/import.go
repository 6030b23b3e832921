// ABOUTME: CLI command for importing CSV diet logs.
// ABOUTME: Parses one or more files concurrently and stores each as an import batch.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/diet/internal/ingest"
	"github.com/harperreed/diet/internal/storage"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>...",
	Short: "Import CSV diet logs",
	Long: `Import one or more CSV exports from a food-logging app.

Each file becomes an import batch that can be listed with 'diet imports'
and removed with 'diet delete'. Headers are matched loosely, so exports
from most apps work without editing.

ROW HANDLING:

  - Rows with no readable date are skipped with a warning
  - Missing or unreadable numbers count as 0
  - Sodium in grams or salt columns is converted to milligrams
  - A file with no usable rows is rejected and nothing is stored

If any file fails to parse or save, none of the files are stored.

EXAMPLES:

  diet import export.csv                # Import one file
  diet import jan.csv feb.csv mar.csv   # Import several files
  diet import -v export.csv             # Also show header matching details`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		importer := ingest.NewImporter(ingest.WithLogger(logger))

		results, err := importer.ImportFiles(cmd.Context(), args)
		if err != nil {
			return err
		}

		pending := make([]storage.PendingImport, 0, len(results))
		for _, res := range results {
			pending = append(pending, storage.PendingImport{Batch: res.Batch(), Records: res.Records})
		}
		if err := db.SaveImports(pending); err != nil {
			return fmt.Errorf("failed to save imports: %w", err)
		}

		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		for _, p := range pending {
			batch := p.Batch
			fmt.Fprintln(out, color.GreenString("✓ Imported %d entries from %s", batch.Entries, batch.Source))
			fmt.Fprintf(out, "  %s", faint.Sprint(shortID(batch.ID.String())))
			if batch.Skipped > 0 {
				fmt.Fprint(out, color.YellowString(" (%d rows skipped)", batch.Skipped))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
