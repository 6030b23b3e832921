// ABOUTME: CLI command for written feedback on logged intake.
// ABOUTME: Uses the configured AI provider and falls back to the offline analysis.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/diet/internal/analysis"
	"github.com/harperreed/diet/internal/narrate"
	"github.com/harperreed/diet/internal/report"
	"github.com/harperreed/diet/internal/task"
	"github.com/spf13/cobra"
)

var (
	analyzeFilter  filterFlags
	analyzeOffline bool
	analyzePayload bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Get feedback on your intake",
	Long: `Compare your logged intake with your targets and print feedback.

With OPENAI_API_KEY or GEMINI_API_KEY set, a hosted model writes the
feedback. Without a key, or if the request fails for any reason, the
offline analysis is printed instead. A failed request is noted above the
offline text.

CONFIGURATION:

  DIET_NARRATOR_PROVIDER   openai, gemini or offline (default: whichever key is set)
  DIET_NARRATOR_MODEL      model override (default gpt-4o-mini / gemini-2.5-flash)

  The same settings can be stored under "narrator" in ~/.config/diet/config.json.

EXAMPLES:

  diet analyze                            # All entries
  diet analyze --from 2024-03-01          # Since March 1st
  diet analyze --offline                  # Never call a hosted model
  diet analyze --payload                  # Print the data sent to the model`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := analyzeFilter.filter(0)
		if err != nil {
			return err
		}

		rep, err := report.Build(db, filter)
		if errors.Is(err, analysis.ErrNoEntries) {
			return fmt.Errorf("no entries to analyze; import a CSV with 'diet import' or widen the date range")
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		payload := rep.Payload()
		if analyzePayload {
			data, err := payload.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, data)
			return nil
		}

		narrator := narrate.NewService(nil, narrate.WithLogger(logger))
		if !analyzeOffline {
			narrator = cfg.NewNarrator(cmd.Context(), logger)
		}
		if p := narrator.Provider(); p != "" {
			logger.Info("requesting analysis", "provider", p)
		}

		res, err := task.Wait(cmd.Context(), func(ctx context.Context) (narrate.Result, error) {
			return narrator.Analyze(ctx, payload), nil
		})
		if err != nil {
			return err
		}

		if res.Source == narrate.SourceModel {
			fmt.Fprintln(out, color.New(color.Faint).Sprintf("Analysis by %s", res.Provider))
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, res.Text)
		return nil
	},
}

func init() {
	analyzeFilter.register(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "use the offline analysis only")
	analyzeCmd.Flags().BoolVar(&analyzePayload, "payload", false, "print the JSON payload instead of analysing")
	rootCmd.AddCommand(analyzeCmd)
}
