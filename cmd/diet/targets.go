// ABOUTME: CLI command for showing computed nutrition targets.
// ABOUTME: Uses the stored profile and goals; no entries are required.
package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harperreed/diet/internal/models"
	"github.com/harperreed/diet/internal/report"
	"github.com/harperreed/diet/internal/targets"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Show daily nutrition targets",
	Long: `Show BMR, TDEE and daily targets computed from your profile and goals.

HOW TARGETS ARE COMPUTED:

  BMR       Mifflin-St Jeor from weight, height, age and sex
  TDEE      BMR x activity multiplier
  Calories  TDEE adjusted by the goal rate (7,700 kcal per kg), never below 1,200
  Protein   protein g/kg x weight
  Fat       fat g/kg x weight
  Carbs     calories left after protein and fat, / 4
  Fiber     14 g per 1,000 kcal unless overridden
  Sodium    2,300 mg unless overridden

Change the inputs with 'diet profile set' and 'diet goals set'.

EXAMPLES:

  diet targets`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, g, t, err := report.Preferences(db)
		if err != nil {
			return err
		}
		printTargets(cmd.OutOrStdout(), p, g, t)
		return nil
	},
}

func printTargets(out io.Writer, p models.Profile, g models.GoalSettings, t targets.Targets) {
	faint := color.New(color.Faint)
	fmt.Fprintln(out, faint.Sprintf("%d y, %s, %.1f kg, %.0f cm, %s, goal %s %.2f kg/week",
		p.Age, p.Sex, p.WeightKg, p.HeightCm, p.ActivityLevel, g.Mode, g.WeeklyRateKg))

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Target", "Daily"})
	tw.AppendRow(table.Row{"BMR (kcal)", commaf(t.BMR)})
	tw.AppendRow(table.Row{"TDEE (kcal)", commaf(t.TDEE)})
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"Calories (kcal)", commaf(t.CalorieTarget)})
	tw.AppendRow(table.Row{"Protein (g)", commaf(t.ProteinG)})
	tw.AppendRow(table.Row{"Carbs (g)", commaf(t.CarbsG)})
	tw.AppendRow(table.Row{"Fat (g)", commaf(t.FatG)})
	tw.AppendRow(table.Row{"Fiber (g)", commaf(t.FiberG)})
	tw.AppendRow(table.Row{"Sodium (mg)", commaf(t.SodiumMg)})
	tw.SetColumnConfigs(rightAligned(2))
	tw.Render()
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
