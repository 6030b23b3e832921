// ABOUTME: CLI command for summarising diet entries.
// ABOUTME: Shows totals, daily averages against targets, macro split and daily calories.
package main

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/harperreed/diet/internal/analysis"
	"github.com/harperreed/diet/internal/report"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	summaryFilter filterFlags
	summaryDaily  bool
)

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"sum"},
	Short:   "Summarise logged intake",
	Long: `Summarise the entries in a date range.

Entries are grouped by calendar day. Daily averages divide each total by
the number of distinct logged days, not by the calendar span. The macro
split is the share of calories from protein, carbs and fat (4, 4 and 9
kcal per gram).

EXAMPLES:

  diet summary                            # All stored entries
  diet summary --from 2024-03-01          # Since March 1st
  diet summary --daily                    # Also show calories per day
  diet summary -s "meal prep"             # Only matching entries`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := summaryFilter.filter(0)
		if err != nil {
			return err
		}

		rep, err := report.Build(db, filter)
		if errors.Is(err, analysis.ErrNoEntries) {
			fmt.Fprintln(cmd.OutOrStdout(), "No entries found. Import a CSV with 'diet import'.")
			return nil
		}
		if err != nil {
			return err
		}

		printSummary(cmd.OutOrStdout(), rep, summaryDaily)
		return nil
	},
}

func printSummary(out io.Writer, rep *report.Report, daily bool) {
	s, t := rep.Summary, rep.Targets
	bold := color.New(color.Bold)

	fmt.Fprintf(out, "%s %s to %s, %s entries over %d days\n\n",
		bold.Sprint("Period:"), s.StartDate, s.EndDate,
		humanize.Comma(int64(s.EntryCount)), s.DayCount)

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"", "Total", "Daily avg", "Target", "Avg vs target"})
	tw.AppendRow(table.Row{"Calories (kcal)", commaf(s.Totals.Calories), commaf(s.Averages.Calories), commaf(t.CalorieTarget), ratio(s.Averages.Calories, t.CalorieTarget)})
	tw.AppendRow(table.Row{"Protein (g)", commaf(s.Totals.ProteinG), fmt.Sprintf("%.1f", s.Averages.ProteinG), commaf(t.ProteinG), ratio(s.Averages.ProteinG, t.ProteinG)})
	tw.AppendRow(table.Row{"Carbs (g)", commaf(s.Totals.CarbsG), fmt.Sprintf("%.1f", s.Averages.CarbsG), commaf(t.CarbsG), ratio(s.Averages.CarbsG, t.CarbsG)})
	tw.AppendRow(table.Row{"Fat (g)", commaf(s.Totals.FatG), fmt.Sprintf("%.1f", s.Averages.FatG), commaf(t.FatG), ratio(s.Averages.FatG, t.FatG)})
	tw.AppendRow(table.Row{"Fiber (g)", commaf(s.Totals.FiberG), fmt.Sprintf("%.1f", s.Averages.FiberG), commaf(t.FiberG), ratio(s.Averages.FiberG, t.FiberG)})
	tw.AppendRow(table.Row{"Sodium (mg)", commaf(s.Totals.SodiumMg), commaf(s.Averages.SodiumMg), commaf(t.SodiumMg), ratio(s.Averages.SodiumMg, t.SodiumMg)})
	tw.SetColumnConfigs(rightAligned(2, 3, 4, 5))
	tw.Render()

	fmt.Fprintf(out, "\n%s protein %.1f%%, carbs %.1f%%, fat %.1f%%\n",
		bold.Sprint("Macro calories:"), s.MacroPercent.Protein, s.MacroPercent.Carbs, s.MacroPercent.Fat)

	if !daily {
		return
	}

	fmt.Fprintln(out)
	dw := table.NewWriter()
	dw.SetOutputMirror(out)
	dw.SetStyle(table.StyleLight)
	dw.AppendHeader(table.Row{"Date", "Entries", "Calories", "vs target"})
	for _, d := range s.Days {
		cal, _ := s.DailyCalories.Get(d.Date)
		dw.AppendRow(table.Row{d.Date.String(), d.Entries, humanize.Comma(int64(cal)), signedDiff(float64(cal) - t.CalorieTarget)})
	}
	dw.SetColumnConfigs(rightAligned(2, 3, 4))
	dw.Render()
}

// commaf formats v rounded to a whole number with thousands separators.
func commaf(v float64) string {
	return humanize.Comma(int64(analysis.RoundHalfUp(v)))
}

// ratio renders actual as a percentage of target.
func ratio(actual, target float64) string {
	if target <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", actual/target*100)
}

func signedDiff(v float64) string {
	n := analysis.RoundHalfUp(math.Abs(v))
	switch {
	case n == 0:
		return "0"
	case v < 0:
		return "-" + humanize.Comma(int64(n))
	}
	return "+" + humanize.Comma(int64(n))
}

func init() {
	summaryFilter.register(summaryCmd)
	summaryCmd.Flags().BoolVarP(&summaryDaily, "daily", "d", false, "show calories for each day")
	rootCmd.AddCommand(summaryCmd)
}
