// ABOUTME: CLI command for listing diet entries.
// ABOUTME: Supports date range, text search and result limits.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var (
	listFilter filterFlags
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List diet entries",
	Long: `List stored diet entries in date order.

OUTPUT FORMAT:

  Each row shows: DATE  MEAL  ITEM  QTY  KCAL  CARBS  PROTEIN  FAT  FIBER  SODIUM  NOTES
  Grams for macros and fiber, milligrams for sodium.

FILTERING:

  --from, --to     Inclusive date bounds (YYYY-MM-DD)
  --search, -s     Case-insensitive match on item, meal or notes
  --limit, -n      Stop after this many entries (0 for all)

EXAMPLES:

  diet list                              # First 20 entries
  diet list --from 2024-03-01 -n 0       # Everything since March 1st
  diet list -s chicken                   # Entries mentioning chicken
  diet list --from 2024-03-04 --to 2024-03-10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := listFilter.filter(listLimit)
		if err != nil {
			return err
		}

		records, err := db.ListRecords(filter)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No entries found.")
			return nil
		}

		faint := color.New(color.Faint)
		tw := table.NewWriter()
		tw.SetOutputMirror(out)
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"Date", "Meal", "Item", "Qty", "Kcal", "Carbs", "Protein", "Fat", "Fiber", "Sodium", "Notes"})
		for _, r := range records {
			tw.AppendRow(table.Row{
				r.Date.String(),
				r.Meal,
				truncate(r.Item, 30),
				r.Quantity,
				fmt.Sprintf("%.0f", r.Calories),
				fmt.Sprintf("%.1f", r.CarbsG),
				fmt.Sprintf("%.1f", r.ProteinG),
				fmt.Sprintf("%.1f", r.FatG),
				fmt.Sprintf("%.1f", r.FiberG),
				fmt.Sprintf("%.0f", r.SodiumMg),
				faint.Sprint(truncate(r.Notes, 30)),
			})
		}
		tw.SetColumnConfigs(rightAligned(5, 6, 7, 8, 9, 10))
		tw.Render()
		return nil
	},
}

// rightAligned returns column configs aligning the given 1-based columns right.
func rightAligned(cols ...int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, 0, len(cols))
	for _, n := range cols {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	return configs
}

func init() {
	listFilter.register(listCmd)
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results (0 for all)")
	rootCmd.AddCommand(listCmd)
}
