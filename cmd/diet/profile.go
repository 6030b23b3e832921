// ABOUTME: CLI commands for viewing and updating the profile and goals.
// ABOUTME: Updates are validated before saving; invalid values change nothing.
package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harperreed/diet/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	profileAge      int
	profileSex      string
	profileWeight   float64
	profileHeight   float64
	profileActivity string

	goalsMode    string
	goalsRate    float64
	goalsProtein float64
	goalsFat     float64
	goalsFiber   float64
	goalsSodium  float64
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	Long: `Show or update the profile used to compute targets.

Defaults until you set them: 30 years, female, 70 kg, 170 cm, sedentary.

EXAMPLES:

  diet profile                                # Show the profile
  diet profile set --age 34 --sex male        # Change some fields
  diet profile set --weight 82.5 --height 180
  diet profile set --activity "moderately active"

ACTIVITY LEVELS:

  sedentary, lightly_active, moderately_active, very_active, athlete`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.LoadProfile()
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		printProfile(cmd.OutOrStdout(), p)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	Long: `Update one or more profile fields. Fields you don't pass keep their value.

ALLOWED RANGES:

  --age        13-120 years
  --weight     30-400 kg
  --height     120-250 cm
  --sex        male or female
  --activity   sedentary, lightly_active, moderately_active, very_active, athlete`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.LoadProfile()
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		flags := cmd.Flags()
		if flags.Changed("age") {
			p.Age = profileAge
		}
		if flags.Changed("sex") {
			if p.Sex, err = models.ParseSex(profileSex); err != nil {
				return err
			}
		}
		if flags.Changed("weight") {
			p.WeightKg = profileWeight
		}
		if flags.Changed("height") {
			p.HeightCm = profileHeight
		}
		if flags.Changed("activity") {
			if p.ActivityLevel, err = models.ParseActivityLevel(profileActivity); err != nil {
				return err
			}
		}

		if err := db.SaveProfile(p); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Saved profile"))
		printProfile(out, p)
		return nil
	},
}

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show or update your goals",
	Long: `Show or update the goal settings used to compute targets.

Defaults until you set them: maintain, 0 kg/week, 1.6 g/kg protein,
0.8 g/kg fat, automatic fiber and sodium.

EXAMPLES:

  diet goals                                  # Show the goals
  diet goals set --mode lose --rate 0.5       # Lose half a kilo a week
  diet goals set --protein 2.0 --fat 0.9      # Macro ratios in g/kg
  diet goals set --fiber 35 --sodium 1800     # Fixed fiber and sodium
  diet goals set --fiber 0                    # Back to automatic fiber`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := db.LoadGoals()
		if err != nil {
			return fmt.Errorf("failed to load goals: %w", err)
		}
		printGoals(cmd.OutOrStdout(), g)
		return nil
	},
}

var goalsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update goal settings",
	Long: `Update one or more goal settings. Settings you don't pass keep their value.

ALLOWED RANGES:

  --mode       lose, maintain or gain
  --rate       0-1.5 kg per week
  --protein    0.7-3.0 g per kg body weight
  --fat        0.3-1.5 g per kg body weight
  --fiber      grams per day; 0 or less means automatic
  --sodium     mg per day; 0 or less means automatic`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := db.LoadGoals()
		if err != nil {
			return fmt.Errorf("failed to load goals: %w", err)
		}

		flags := cmd.Flags()
		if flags.Changed("mode") {
			if g.Mode, err = models.ParseGoalMode(goalsMode); err != nil {
				return err
			}
		}
		if flags.Changed("rate") {
			g.WeeklyRateKg = goalsRate
		}
		if flags.Changed("protein") {
			g.ProteinPerKg = goalsProtein
		}
		if flags.Changed("fat") {
			g.FatPerKg = goalsFat
		}
		if flags.Changed("fiber") {
			g.FiberTargetG = goalsFiber
		}
		if flags.Changed("sodium") {
			g.SodiumTargetMg = goalsSodium
		}

		if err := db.SaveGoals(g); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Saved goals"))
		printGoals(out, g)
		return nil
	},
}

func printProfile(out io.Writer, p models.Profile) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendRows([]table.Row{
		{"Age", fmt.Sprintf("%d years", p.Age)},
		{"Sex", p.Sex},
		{"Weight", fmt.Sprintf("%.1f kg", p.WeightKg)},
		{"Height", fmt.Sprintf("%.0f cm", p.HeightCm)},
		{"Activity", fmt.Sprintf("%s (x%.3g)", p.ActivityLevel, p.ActivityLevel.Multiplier())},
	})
	tw.Render()
}

func printGoals(out io.Writer, g models.GoalSettings) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendRows([]table.Row{
		{"Mode", g.Mode},
		{"Weekly rate", fmt.Sprintf("%.2f kg", g.WeeklyRateKg)},
		{"Protein", fmt.Sprintf("%.2f g/kg", g.ProteinPerKg)},
		{"Fat", fmt.Sprintf("%.2f g/kg", g.FatPerKg)},
		{"Fiber", override(g.FiberTargetG, "g")},
		{"Sodium", override(g.SodiumTargetMg, "mg")},
	})
	tw.Render()
}

func override(v float64, unit string) string {
	if v <= 0 {
		return "auto"
	}
	return fmt.Sprintf("%.0f %s", v, unit)
}

func init() {
	profileSetCmd.Flags().IntVar(&profileAge, "age", 0, "age in years")
	profileSetCmd.Flags().StringVar(&profileSex, "sex", "", "male or female")
	profileSetCmd.Flags().Float64Var(&profileWeight, "weight", 0, "weight in kg")
	profileSetCmd.Flags().Float64Var(&profileHeight, "height", 0, "height in cm")
	profileSetCmd.Flags().StringVar(&profileActivity, "activity", "", "activity level")
	profileCmd.AddCommand(profileSetCmd)

	goalsSetCmd.Flags().StringVar(&goalsMode, "mode", "", "lose, maintain or gain")
	goalsSetCmd.Flags().Float64Var(&goalsRate, "rate", 0, "weekly change in kg")
	goalsSetCmd.Flags().Float64Var(&goalsProtein, "protein", 0, "protein g per kg body weight")
	goalsSetCmd.Flags().Float64Var(&goalsFat, "fat", 0, "fat g per kg body weight")
	goalsSetCmd.Flags().Float64Var(&goalsFiber, "fiber", 0, "fiber g per day (0 for automatic)")
	goalsSetCmd.Flags().Float64Var(&goalsSodium, "sodium", 0, "sodium mg per day (0 for automatic)")
	goalsCmd.AddCommand(goalsSetCmd)

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(goalsCmd)
}
